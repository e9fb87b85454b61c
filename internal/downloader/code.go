package downloader

import "fmt"

// Code is the outcome of a single download attempt.
type Code int

const (
	Success Code = iota
	InvalidURL
	InvalidProtocol
	CouldNotConnect
	InvalidRedirect
	InvalidResponseCode
	InvalidFileType
	InvalidFileSize
	FileNotFound
	UnexpectedError
)

var codeNames = [...]string{
	Success:             "SUCCESS",
	InvalidURL:          "INVALID_URL",
	InvalidProtocol:     "INVALID_PROTOCOL",
	CouldNotConnect:     "COULD_NOT_CONNECT",
	InvalidRedirect:     "INVALID_REDIRECT",
	InvalidResponseCode: "INVALID_RESPONSE_CODE",
	InvalidFileType:     "INVALID_FILE_TYPE",
	InvalidFileSize:     "INVALID_FILE_SIZE",
	FileNotFound:        "FILE_NOT_FOUND",
	UnexpectedError:     "UNEXPECTED_ERROR",
}

// Codes lists every code in declaration order.
func Codes() []Code {
	codes := make([]Code, len(codeNames))
	for i := range codeNames {
		codes[i] = Code(i)
	}
	return codes
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return codeNames[c]
}

// MessageCode is the key the presentation layer translates into a user message.
func (c Code) MessageCode() string {
	return "DownloadResult." + c.String()
}

func (c Code) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(codeNames) {
		return nil, fmt.Errorf("unknown download code %d", int(c))
	}
	return []byte(codeNames[c]), nil
}

func (c *Code) UnmarshalText(text []byte) error {
	code, err := ParseCode(string(text))
	if err != nil {
		return err
	}
	*c = code
	return nil
}

// ParseCode maps a name such as "INVALID_URL" back to its Code.
func ParseCode(name string) (Code, error) {
	for i, n := range codeNames {
		if n == name {
			return Code(i), nil
		}
	}
	return UnexpectedError, fmt.Errorf("unknown download code %q", name)
}
