package types

// Bucket is a logical content partition. Keys inside a bucket are file
// UUIDs; there is no cross-bucket transaction, so movers must order
// delete-after-put.
type Bucket string

const (
	BucketDocuments  Bucket = "documents"
	BucketImages     Bucket = "images"
	BucketTrash      Bucket = "trash"
	BucketApplets    Bucket = "applets"
	BucketWallpapers Bucket = "custom-wallpapers"
)

// AllBuckets lists every logical partition, in a stable order.
func AllBuckets() []Bucket {
	return []Bucket{BucketDocuments, BucketImages, BucketTrash, BucketApplets, BucketWallpapers}
}

// Valid reports whether b names a known partition.
func (b Bucket) Valid() bool {
	switch b {
	case BucketDocuments, BucketImages, BucketTrash, BucketApplets, BucketWallpapers:
		return true
	}
	return false
}

// BucketForType maps a metadata type tag to the bucket its content lives
// in. Trashed content lives in BucketTrash regardless of type.
func BucketForType(t ItemType) Bucket {
	if t.IsImage() {
		return BucketImages
	}
	if t == TypeApplication {
		return BucketApplets
	}
	return BucketDocuments
}

// Entry is one stored payload: display name plus opaque content bytes.
// Text content is stored as UTF-8 bytes.
type Entry struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// ContentStats summarizes the content store.
type ContentStats struct {
	Buckets map[Bucket]int `json:"buckets"`
	Total   int            `json:"total"`
}
