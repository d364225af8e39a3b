package domain

import "time"

// Document types residents are allowed to register without board privileges.
const (
	DocCCR        = "ccr"
	DocBylaws     = "bylaws"
	DocMinutes    = "minutes"
	DocNewsletter = "newsletter"
	DocOther      = "other"
)

func ValidDocumentType(docType string) bool {
	switch docType {
	case DocCCR, DocBylaws, DocMinutes, DocNewsletter, DocOther:
		return true
	}
	return false
}

// ResidentDocumentType reports whether residents may register this type
// themselves. Everything else needs board or admin role.
func ResidentDocumentType(docType string) bool {
	return docType == DocCCR || docType == DocBylaws
}

// Document is a metadata record only; the file itself lives elsewhere and
// is referenced by URL.
type Document struct {
	Id          string
	Title       string
	Type        string
	FileURL     string
	UploaderId  UserId
	CommunityId CommunityId
	CreatedAt   time.Time
}
