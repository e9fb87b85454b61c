package downloader

// Result is the immutable outcome of one Download call.
// Data and ContentType are only populated when Code is Success.
type Result struct {
	code        Code
	data        []byte
	contentType string
}

// NewSuccess wraps downloaded bytes. The slice is not copied; callers hand over ownership.
func NewSuccess(data []byte, contentType string) *Result {
	return &Result{
		code:        Success,
		data:        data,
		contentType: contentType,
	}
}

// NewFailure builds a failed result. Passing Success is a programming error
// and is reported as UnexpectedError.
func NewFailure(code Code) *Result {
	if code == Success {
		code = UnexpectedError
	}
	return &Result{code: code}
}

func (r *Result) Code() Code {
	return r.code
}

func (r *Result) HasFailed() bool {
	return r.code != Success
}

// Data returns a copy of the downloaded content, or nil on failure.
func (r *Result) Data() []byte {
	if r.data == nil {
		return nil
	}
	out := make([]byte, len(r.data))
	copy(out, r.data)
	return out
}

func (r *Result) ContentType() string {
	return r.contentType
}

// Size returns the number of downloaded bytes.
func (r *Result) Size() int {
	return len(r.data)
}
