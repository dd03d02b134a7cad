package core

import "time"

// ContentKind is the type identifier of a message content variant.
type ContentKind string

const (
	ContentText  ContentKind = "Text"
	ContentImage ContentKind = "Image"
	ContentFile  ContentKind = "File"
	ContentPoll  ContentKind = "Poll"
)

// MessageContent is the content of a message being sent.
// The set of variants is closed to this package; new kinds of content are
// added as new variants rather than by widening existing ones.
type MessageContent interface {
	// ContentKind returns the type identifier for this content.
	ContentKind() ContentKind

	isMessageContent()
}

// TextContent is a plain or markdown text message.
type TextContent struct {
	Text string `json:"text"`
}

// ContentKind returns ContentText.
func (TextContent) ContentKind() ContentKind { return ContentText }
func (TextContent) isMessageContent()        {}

// ImageContent is an image, either uploaded as a blob or referenced by URL.
type ImageContent struct {
	MimeType string `json:"mime_type"`
	Width    uint32 `json:"width"`
	Height   uint32 `json:"height"`
	URL      string `json:"url,omitempty"`
	Data     []byte `json:"data,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// ContentKind returns ContentImage.
func (ImageContent) ContentKind() ContentKind { return ContentImage }
func (ImageContent) isMessageContent()        {}

// FileContent is an arbitrary file attachment.
type FileContent struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	FileSize uint32 `json:"file_size"`
	URL      string `json:"url,omitempty"`
	Data     []byte `json:"data,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// ContentKind returns ContentFile.
func (FileContent) ContentKind() ContentKind { return ContentFile }
func (FileContent) isMessageContent()        {}

// PollContent is a poll with a fixed set of options.
type PollContent struct {
	Question              string     `json:"question"`
	Options               []string   `json:"options"`
	EndDate               *time.Time `json:"end_date,omitempty"`
	Anonymous             bool       `json:"anonymous"`
	AllowMultipleVotes    bool       `json:"allow_multiple_votes_per_user"`
	AllowUserToChangeVote bool       `json:"allow_user_to_change_vote"`
}

// ContentKind returns ContentPoll.
func (PollContent) ContentKind() ContentKind { return ContentPoll }
func (PollContent) isMessageContent()        {}

// Text returns TextContent for s.
func Text(s string) MessageContent {
	return TextContent{Text: s}
}

var (
	_ MessageContent = TextContent{}
	_ MessageContent = ImageContent{}
	_ MessageContent = FileContent{}
	_ MessageContent = PollContent{}
)
