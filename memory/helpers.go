package memory

// ReleaseBuffers calls Release on each buffer in the slice, ignoring nil entries.
func ReleaseBuffers(buffers []*Buffer) {
	for _, buff := range buffers {
		if buff != nil {
			buff.Release()
		}
	}
}
