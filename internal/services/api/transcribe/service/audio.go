package service

import (
	perr "outreach/internal/platform/errors"

	"github.com/gabriel-vasile/mimetype"
)

// audioTypes lists the accepted containers with the file extension the speech
// provider uses to pick a decoder. Order matters: m4a before its mp4 parent
var audioTypes = []struct {
	mime string
	ext  string
}{
	{"audio/x-m4a", "m4a"},
	{"audio/mp4", "m4a"},
	{"video/mp4", "mp4"},
	{"audio/mpeg", "mp3"},
	{"audio/wav", "wav"},
	{"audio/webm", "webm"},
	{"video/webm", "webm"},
	{"audio/ogg", "ogg"},
	{"application/ogg", "ogg"},
	{"audio/aac", "aac"},
}

// audioExt sniffs body and returns the extension of an accepted container
func audioExt(body []byte) (string, error) {
	mt := mimetype.Detect(body)
	for _, t := range audioTypes {
		if mt.Is(t.mime) {
			return t.ext, nil
		}
	}
	for p := mt.Parent(); p != nil; p = p.Parent() {
		for _, t := range audioTypes {
			if p.Is(t.mime) {
				return t.ext, nil
			}
		}
	}
	return "", perr.Validation("unsupported audio format",
		perr.FieldIssue{Field: "audio_url", Message: "must be m4a, mp4, mp3, wav, webm, ogg or aac audio"})
}
