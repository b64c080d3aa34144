package models

import "time"

// Kind identifies a reference-entity collection in the registry.
type Kind string

const (
	KindSenderProfile Kind = "profile"
	KindEmailTemplate Kind = "template"
	KindPhishlet      Kind = "phishlet"
	KindAttachment    Kind = "attachment"
	KindGroup         Kind = "group"
	KindTarget        Kind = "target"
)

// Kinds lists all reference-entity kinds the registry loads.
func Kinds() []Kind {
	return []Kind{
		KindSenderProfile,
		KindEmailTemplate,
		KindPhishlet,
		KindAttachment,
		KindGroup,
		KindTarget,
	}
}

// SenderProfile is a named sending identity (SMTP or OAuth).
type SenderProfile struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	AuthType      string    `json:"auth_type"`
	FromAddress   string    `json:"from_address"`
	FromName      string    `json:"from_name,omitempty"`
	SMTPHost      string    `json:"smtp_host,omitempty"`
	SMTPPort      int       `json:"smtp_port,omitempty"`
	SMTPUsername  string    `json:"smtp_username,omitempty"`
	OAuthClientID string    `json:"oauth_client_id,omitempty"`
	IsActive      bool      `json:"is_active"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EmailTemplate is a campaign email body template.
type EmailTemplate struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Subject      string    `json:"subject"`
	HTMLContent  string    `json:"html_content,omitempty"`
	TextContent  string    `json:"text_content,omitempty"`
	TemplateType string    `json:"template_type,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Phishlet is a cloned landing page used as a campaign payload.
type Phishlet struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	OriginalURL        string    `json:"original_url"`
	CloneURL           string    `json:"clone_url,omitempty"`
	CaptureCredentials bool      `json:"capture_credentials"`
	CaptureOtherData   bool      `json:"capture_other_data"`
	RedirectURL        string    `json:"redirect_url,omitempty"`
	IsActive           bool      `json:"is_active"`
	IsAdmin            bool      `json:"is_admin"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Attachment is a mail attachment used as a campaign payload.
type Attachment struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	FileType    string    `json:"file_type,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Group is a named audience of targets.
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Target is an individual recipient.
type Target struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Position  string    `json:"position,omitempty"`
	GroupID   int64     `json:"group_id,omitempty"`
	GroupName string    `json:"group_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName is the target's name for read-only display.
func (t Target) DisplayName() string {
	if t.FirstName == "" && t.LastName == "" {
		return t.Email
	}
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}
