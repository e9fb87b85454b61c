package binder

import "imgfetch/internal/validation"

// File is an uploaded or downloaded image bound to a form field.
type File struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Size returns the payload length in bytes.
func (f *File) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

func (f *File) empty() bool {
	return f == nil || f.Filename == ""
}

// Form is a submission that carries an image either as an upload or as a URL.
type Form struct {
	Method          string `json:"method"`
	ImageURL        string `json:"image_url,omitempty"`
	Image           *File  `json:"image,omitempty"`
	DownloadedImage *File  `json:"downloaded_image,omitempty"`
}

var _ validation.HasImageOrImageURL = (*Form)(nil)

// HasImage and HasImageURL report false on a nil form.
func (f *Form) HasImage() bool {
	return f != nil && !f.Image.empty()
}

func (f *Form) HasImageURL() bool {
	return f != nil && f.ImageURL != ""
}

// EffectiveImage returns the uploaded image, falling back to the downloaded one.
func (f *Form) EffectiveImage() *File {
	if f == nil {
		return nil
	}
	if f.HasImage() {
		return f.Image
	}
	return f.DownloadedImage
}
