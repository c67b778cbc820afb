// Package pipeline runs the six admin mutations of the catalog. Each one
// validates, stages the uploaded image, persists, commits asset side effects
// and reports a single Outcome for the presentation layer.
package pipeline

// Kind classifies an Outcome.
type Kind int

const (
	Success Kind = iota
	Validation
	NotFound
	Conflict
	Internal
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Operation names a mutation type.
type Operation string

const (
	AddCategory    Operation = "add_category"
	EditCategory   Operation = "edit_category"
	DeleteCategory Operation = "delete_category"
	AddProduct     Operation = "add_product"
	EditProduct    Operation = "edit_product"
	DeleteProduct  Operation = "delete_product"
)

// Outcome is everything the caller learns about a mutation.
type Outcome struct {
	Success        bool   `json:"success"`
	Kind           Kind   `json:"-"`
	Message        string `json:"message"`
	RedirectTarget string `json:"redirectTarget"`
	// ID is the affected record on success.
	ID string `json:"id,omitempty"`
}

// FlashKey is the flash bucket the message belongs in.
func (o Outcome) FlashKey() string {
	if o.Success {
		return "success"
	}
	return "error"
}

func succeeded(id, message, redirect string) Outcome {
	return Outcome{Success: true, Kind: Success, Message: message, RedirectTarget: redirect, ID: id}
}

func failed(kind Kind, message, redirect string) Outcome {
	return Outcome{Kind: kind, Message: message, RedirectTarget: redirect}
}
