package abstract

import "strings"

// fileTypeByExtension is the full supported domain; anything outside it is a
// skipped file, not an error.
var fileTypeByExtension = map[string]FileType{
	"jpg":  FileTypeImage,
	"jpeg": FileTypeImage,
	"png":  FileTypeImage,
	"pdf":  FileTypePDF,
	"ppt":  FileTypeDocument,
	"pptx": FileTypeDocument,
}

// FileTypeForExtension maps a file extension, with or without a leading dot
// and in any case, to its content category.
func FileTypeForExtension(ext string) (FileType, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	ft, ok := fileTypeByExtension[ext]
	return ft, ok
}

// SupportedExtension reports whether files with the given extension belong in
// a scan result.
func SupportedExtension(ext string) bool {
	_, ok := FileTypeForExtension(ext)
	return ok
}
