package validation

// Field names shared with the image form.
const (
	ImageField    = "image"
	ImageURLField = "imageUrl"
)

const (
	RequireImageOrImageURLCode    = "RequireImageOrImageUrl"
	RequireImageOrImageURLMessage = "Image or image URL must be specified"
)

// FieldError attaches a validation failure to a single form field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// HasImageOrImageURL is implemented by forms that accept either an uploaded
// image or a link to one.
type HasImageOrImageURL interface {
	HasImage() bool
	HasImageURL() bool
}

// Validate fails when neither an image nor an image URL was given. Both
// fields are marked so the user sees the error next to each of them.
func Validate(hasImage, hasImageURL bool) []FieldError {
	if hasImage || hasImageURL {
		return nil
	}

	return []FieldError{
		{Field: ImageURLField, Code: RequireImageOrImageURLCode, Message: RequireImageOrImageURLMessage},
		{Field: ImageField, Code: RequireImageOrImageURLCode, Message: RequireImageOrImageURLMessage},
	}
}

// RequireImageOrImageURL applies Validate to a form. A nil form is valid;
// other rules are responsible for rejecting it.
func RequireImageOrImageURL(v HasImageOrImageURL) []FieldError {
	if v == nil {
		return nil
	}
	return Validate(v.HasImage(), v.HasImageURL())
}
