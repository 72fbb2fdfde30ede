// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package asset stores uploaded chapter files, manga covers and avatars on the
local filesystem and serves them back by their generated name.

Layout under the configured root:

	image/manga-image/  covers and image chapters
	image/avatar-user/  user avatars
	pdf/                PDF chapters

Stored names are always a fresh UUID plus the lowercased original extension, so
client-supplied names never reach the filesystem.
*/
package asset

import (
	"path/filepath"
	"strings"
)

// Kind selects the routing rules applied to an upload.
type Kind string

const (
	// KindManga accepts chapter documents and images.
	KindManga Kind = "manga"

	// KindAvatar accepts images only.
	KindAvatar Kind = "avatar"
)

// Folder is a directory relative to the asset root.
type Folder string

const (
	FolderMangaImage Folder = "image/manga-image"
	FolderAvatar     Folder = "image/avatar-user"
	FolderPDF        Folder = "pdf"
)

// FieldFile is the multipart field name used by the upload endpoints.
const FieldFile = "imageFile"

const defaultContentType = "application/octet-stream"

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

var documentExtensions = map[string]bool{
	".pdf": true,
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// Extension returns the lowercased extension of name, including the dot.
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsImage reports whether name carries an image extension.
func IsImage(name string) bool {
	return imageExtensions[Extension(name)]
}

// IsDocument reports whether name carries a document extension.
func IsDocument(name string) bool {
	return documentExtensions[Extension(name)]
}

// ContentType derives the MIME type of a stored file from its extension.
func ContentType(name string) string {
	if contentType, ok := contentTypes[Extension(name)]; ok {
		return contentType
	}
	return defaultContentType
}

// folderFor routes a file name to its directory, or returns false if the
// kind does not accept its extension.
func folderFor(kind Kind, name string) (Folder, bool) {
	switch kind {
	case KindAvatar:
		if IsImage(name) {
			return FolderAvatar, true
		}
	case KindManga:
		if IsImage(name) {
			return FolderMangaImage, true
		}
		if IsDocument(name) {
			return FolderPDF, true
		}
	}
	return "", false
}
