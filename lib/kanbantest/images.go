// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbantest

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

// maxUploadSize bounds a single image upload.
const maxUploadSize = 10 << 20

func (b *Backend) handleUploadImage(c *gin.Context) {
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if mediaType != "multipart/form-data" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{
			"detail": fmt.Sprintf("Unsupported media type %q in request.", c.GetHeader("Content-Type")),
		})
		return
	}

	taskID, err := strconv.ParseInt(c.PostForm("task"), 10, 64)
	if err != nil {
		fieldError(c, "task", "This field is required.")
		return
	}
	header, err := c.FormFile("image")
	if err != nil {
		fieldError(c, "image", "No file was submitted.")
		return
	}
	if header.Size > maxUploadSize {
		fieldError(c, "image", "File too large.")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		fieldError(c, "image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unreadable upload."})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unreadable upload."})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.findTask(taskID) == nil {
		fieldError(c, "task", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", taskID))
		return
	}
	existing := b.imagesOf(taskID)
	if len(existing) >= kanban.MaxTaskImages {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("A task can have at most %d images.", kanban.MaxTaskImages)})
		return
	}

	position := len(existing)
	if raw := c.PostForm("position"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			fieldError(c, "position", "A valid integer is required.")
			return
		}
		position = parsed
	}

	record := &imageRecord{
		id:          b.allocateID(),
		taskID:      taskID,
		position:    position,
		filename:    header.Filename,
		contentType: contentType,
		data:        data,
	}
	b.images = append(b.images, record)
	c.JSON(http.StatusCreated, imageView(record))
}

func (b *Backend) handleRepositionImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var request struct {
		Position *int `json:"position"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error."})
		return
	}
	if request.Position == nil || *request.Position < 0 {
		fieldError(c, "position", "A valid integer is required.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	record := b.findImage(id)
	if record == nil {
		notFound(c)
		return
	}
	record.position = *request.Position
	c.JSON(http.StatusOK, imageView(record))
}

func (b *Backend) handleDeleteImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.findImage(id) == nil {
		notFound(c)
		return
	}
	b.images = removeWhere(b.images, func(record *imageRecord) bool { return record.id == id })
	c.Status(http.StatusNoContent)
}

func (b *Backend) handleMedia(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	record := b.findImage(id)
	b.mu.Unlock()
	if record == nil || record.filename != c.Param("name") {
		notFound(c)
		return
	}
	c.Data(http.StatusOK, record.contentType, record.data)
}
