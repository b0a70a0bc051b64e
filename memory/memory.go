package memory

// Set assigns the value c to every element of the slice buf.
func Set(buf []byte, c byte) {
	for i := range buf {
		buf[i] = c
	}
}
