//go:build !cgo

package capture

// Null is the capture device when the program was built without cgo; it
// can never be opened.
type Null struct{}

// Default returns the capture device of the platform.
func Default(framesPerBuffer int) Device {
	return Null{}
}

func (Null) Open(f Format) (Stream, error) {
	return nil, ErrUnavailable
}
