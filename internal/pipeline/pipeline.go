package pipeline

import (
	"context"
	"errors"
	"log"

	"catalog/internal/assets"
	"catalog/internal/store"
	"catalog/internal/validation"
)

// Recorder is told how every mutation ended.
type Recorder interface {
	RecordMutation(ctx context.Context, operation, outcome string)
}

// Pipeline holds no per-request state and is safe for concurrent use. The
// store's unique indexes are the only guard between racing mutations.
type Pipeline struct {
	store    store.Store
	assets   *assets.Manager
	recorder Recorder
}

type Option func(*Pipeline)

func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

func New(st store.Store, am *assets.Manager, opts ...Option) *Pipeline {
	p := &Pipeline{store: st, assets: am}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mutation is the generic inbound call. Category is read by category
// operations and Product by product operations. Upload is the stored name
// of an image the transport already attached, or empty.
type Mutation struct {
	Operation Operation
	TargetID  string
	Category  validation.CategoryInput
	Product   validation.ProductInput
	Upload    string
}

// Run dispatches m to its operation.
func (p *Pipeline) Run(ctx context.Context, m Mutation) Outcome {
	switch m.Operation {
	case AddCategory:
		return p.AddCategory(ctx, m.Category)
	case EditCategory:
		return p.EditCategory(ctx, m.TargetID, m.Category)
	case DeleteCategory:
		return p.DeleteCategory(ctx, m.TargetID)
	case AddProduct:
		return p.AddProduct(ctx, m.Product, m.Upload)
	case EditProduct:
		return p.EditProduct(ctx, m.TargetID, m.Product, m.Upload)
	case DeleteProduct:
		return p.DeleteProduct(ctx, m.TargetID)
	default:
		p.assets.Discard(ctx, m.Upload)
		log.Printf("[PIPELINE] unknown operation %q", m.Operation)
		return failed(Internal, "Unknown operation", "/admin")
	}
}

// UploadRejected reports an upload the transport refused before the
// pipeline ran, such as an unsupported extension or an oversized file.
func (p *Pipeline) UploadRejected(ctx context.Context, op Operation, targetID string, err error) Outcome {
	redirect := AddProductPath
	if op == EditProduct {
		redirect = EditProductPath(targetID)
	}
	var out Outcome
	switch {
	case errors.Is(err, assets.ErrUnsupportedImage):
		out = failed(Validation, "Only image files are allowed (jpg, jpeg, png, webp, gif)", redirect)
	case errors.Is(err, assets.ErrImageTooLarge):
		out = failed(Validation, "Image file is too large", redirect)
	default:
		log.Printf("[PIPELINE] %s: upload failed: %v", op, err)
		out = failed(Internal, errorMessage(op), redirect)
	}
	return p.finish(ctx, op, out)
}

func (p *Pipeline) finish(ctx context.Context, op Operation, out Outcome) Outcome {
	if p.recorder != nil {
		p.recorder.RecordMutation(ctx, string(op), out.Kind.String())
	}
	return out
}

func errorMessage(op Operation) string {
	switch op {
	case AddCategory:
		return "Error adding category"
	case EditCategory:
		return "Error updating category"
	case DeleteCategory:
		return "Error deleting category"
	case AddProduct:
		return "Error adding product"
	case EditProduct:
		return "Error updating product"
	case DeleteProduct:
		return "Error deleting product"
	default:
		return "Unexpected error"
	}
}
