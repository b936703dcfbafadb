package core

// Zero sets all values in buf to 0.
func Zero[T Sample](buf []T) {
	for i := range buf {
		buf[i] = 0
	}
}
