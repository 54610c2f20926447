package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	// Sweep the upload store for files no product references
	TypeCleanupOrphanUploads = "uploads:cleanup_orphans"

	// Remove the images of a deleted product
	TypeCleanupProductImages = "uploads:cleanup_product_images"
)

// ImageCleanupPayload carries the image URLs of a deleted product
type ImageCleanupPayload struct {
	ProductID string   `json:"product_id"`
	Images    []string `json:"images"`
}

// NewCleanupOrphanUploadsTask creates a task to sweep unreferenced uploads
func NewCleanupOrphanUploadsTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupOrphanUploads, nil)
}

// NewCleanupProductImagesTask creates a task to remove a deleted product's images
func NewCleanupProductImagesTask(productID string, images []string) (*asynq.Task, error) {
	payload, err := json.Marshal(ImageCleanupPayload{
		ProductID: productID,
		Images:    images,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeCleanupProductImages, payload), nil
}

// ParseImageCleanupPayload parses an image cleanup payload from an Asynq task
func ParseImageCleanupPayload(task *asynq.Task) (ImageCleanupPayload, error) {
	var payload ImageCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}
