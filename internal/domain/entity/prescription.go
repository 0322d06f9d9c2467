package entity

import "strings"

var prescriptionContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".heic": "image/heic",
}

// PrescriptionContentType returns the content type of an accepted prescription
// file extension. Anything else is rejected at upload.
func PrescriptionContentType(ext string) (string, bool) {
	contentType, ok := prescriptionContentTypes[strings.ToLower(ext)]
	return contentType, ok
}
