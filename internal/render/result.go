package render

// Result holds a generated PDF. Its methods never modify the data.
type Result struct {
	data []byte
}

// NewResult wraps already-rendered PDF bytes.
func NewResult(data []byte) *Result {
	return &Result{data: data}
}

// Bytes returns the raw PDF content.
func (r *Result) Bytes() []byte {
	return r.data
}

// Len returns the size of the PDF in bytes.
func (r *Result) Len() int {
	return len(r.data)
}
