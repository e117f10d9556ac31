package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// Object describes a stored blob.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	LastModified time.Time `json:"last_modified"`
}

// ListResult is one page of blob listings. NextMarker is empty on the
// final page; otherwise pass it back as the marker for the next page.
type ListResult struct {
	Objects    []Object `json:"objects"`
	NextMarker string   `json:"next_marker,omitempty"`
}

// ParseMaxResults parses a raw max_results query value, bounded by limit.
// An empty value yields the limit itself.
func ParseMaxResults(raw string, limit int32) (int32, error) {
	if raw == "" {
		return limit, nil
	}

	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 1 {
		return 0, ErrInvalidMaxResults
	}

	return min(int32(n), limit), nil
}

func (a *azure) List(ctx context.Context, prefix, marker string, maxResults int32) (*ListResult, error) {
	opts := &azblob.ListBlobsFlatOptions{}
	if prefix != "" {
		opts.Prefix = &prefix
	}
	if marker != "" {
		opts.Marker = &marker
	}
	opts.MaxResults = &maxResults

	pager := a.client.NewListBlobsFlatPager(a.container, opts)
	if !pager.More() {
		return &ListResult{Objects: []Object{}}, nil
	}

	page, err := pager.NextPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	result := &ListResult{Objects: make([]Object, 0, len(page.Segment.BlobItems))}
	for _, item := range page.Segment.BlobItems {
		obj := Object{}
		if item.Name != nil {
			obj.Key = *item.Name
		}
		if props := item.Properties; props != nil {
			if props.ContentLength != nil {
				obj.Size = *props.ContentLength
			}
			if props.ContentType != nil {
				obj.ContentType = *props.ContentType
			}
			if props.LastModified != nil {
				obj.LastModified = *props.LastModified
			}
		}
		result.Objects = append(result.Objects, obj)
	}

	if page.NextMarker != nil {
		result.NextMarker = *page.NextMarker
	}

	return result, nil
}
