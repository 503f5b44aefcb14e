package domain

// MaxDocumentSize is the largest accepted bill document, in bytes (5 MiB).
const MaxDocumentSize = 5 * 1024 * 1024

// AllowedContentTypes maps accepted MIME content types to a short type label.
// Content types are detected from magic bytes, not taken from the client.
var AllowedContentTypes = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
}

// LineItemBucket is one of the three classification buckets for line items.
type LineItemBucket string

const (
	BucketProcedures  LineItemBucket = "procedures"
	BucketTests       LineItemBucket = "tests"
	BucketMedications LineItemBucket = "medications"
)
