// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbanapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/netutil"
)

func taskImagePath(id int64) string {
	return fmt.Sprintf("/api/task-images/%d/", id)
}

// ImageUpload describes one image file to attach to a task.
type ImageUpload struct {
	TaskID int64
	// Position is the 0-based slot. Nil lets the server append.
	Position *int
	Filename string
	// ContentType is the image media type (e.g. "image/png").
	ContentType string
	Content     io.Reader
}

// UploadTaskImage uploads an image as multipart/form-data with fields
// "task", "image" and optionally "position". The request carries the
// multipart content type only.
func (c *Client) UploadTaskImage(ctx context.Context, upload ImageUpload) (kanban.TaskImage, error) {
	if upload.TaskID == 0 {
		return kanban.TaskImage{}, fmt.Errorf("kanbanapi: uploading image: task id is required")
	}
	if upload.Content == nil {
		return kanban.TaskImage{}, fmt.Errorf("kanbanapi: uploading image: content is required")
	}

	fields := map[string]string{"task": strconv.FormatInt(upload.TaskID, 10)}
	if upload.Position != nil {
		fields["position"] = strconv.Itoa(*upload.Position)
	}
	data, contentType, err := netutil.MultipartForm(fields, netutil.MultipartFile{
		Field:       "image",
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		Content:     upload.Content,
	})
	if err != nil {
		return kanban.TaskImage{}, fmt.Errorf("kanbanapi: encoding image upload: %w", err)
	}

	responseBody, err := c.doRequest(ctx, http.MethodPost, "/api/task-images/", nil,
		&requestBody{contentType: contentType, data: data})
	if err != nil {
		return kanban.TaskImage{}, fmt.Errorf("kanbanapi: uploading image for task %d: %w", upload.TaskID, err)
	}

	var image kanban.TaskImage
	if err := decodeOptional(responseBody, &image); err != nil {
		return kanban.TaskImage{}, fmt.Errorf("kanbanapi: decoding image upload response: %w", err)
	}
	return image, nil
}

// RepositionTaskImage moves an image to a 0-based position.
func (c *Client) RepositionTaskImage(ctx context.Context, id int64, position int) error {
	payload := struct {
		Position int `json:"position"`
	}{Position: position}
	if err := c.doJSON(ctx, http.MethodPatch, taskImagePath(id), nil, payload, nil); err != nil {
		return fmt.Errorf("kanbanapi: repositioning image %d: %w", id, err)
	}
	return nil
}

// DeleteTaskImage deletes an image. Any 2xx response is success.
func (c *Client) DeleteTaskImage(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, taskImagePath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("kanbanapi: deleting image %d: %w", id, err)
	}
	return nil
}
