// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// PublicationType names the journal a manuscript is submitted to.
type PublicationType string

const (
	PublicationRHCA PublicationType = "RHCA"
	PublicationIGM  PublicationType = "IGM"
)

// ParsePublicationType accepts RHCA or IGM in any case.
func ParsePublicationType(s string) (PublicationType, error) {
	switch t := PublicationType(strings.ToUpper(strings.TrimSpace(s))); t {
	case PublicationRHCA, PublicationIGM:
		return t, nil
	}
	return "", fmt.Errorf("unknown publication type %q (want RHCA or IGM)", s)
}

// SubmissionStatus is the review state of a submission.
type SubmissionStatus string

// StatusPending is the state of every newly received submission.
const StatusPending SubmissionStatus = "pending"

// Author is the corresponding author of a submission.
type Author struct {
	Name    string `json:"name" yaml:"name"`
	Email   string `json:"email" yaml:"email"`
	Phone   string `json:"phone" yaml:"phone"`
	Address string `json:"address" yaml:"address"`
}

// Submission is a manuscript received for review.
type Submission struct {
	ID                  string           `json:"id" yaml:"id"`
	PublicationType     PublicationType  `json:"publication_type" yaml:"publication_type"`
	Title               string           `json:"title" yaml:"title"`
	Authors             string           `json:"authors" yaml:"authors"`
	Institution         string           `json:"institution" yaml:"institution"`
	Keywords            string           `json:"keywords" yaml:"keywords"`
	Abstract            string           `json:"abstract" yaml:"abstract"`
	CorrespondingAuthor Author           `json:"corresponding_author" yaml:"corresponding_author"`
	EthicsApproval      bool             `json:"ethics_approval" yaml:"ethics_approval"`
	NoConflict          bool             `json:"no_conflict" yaml:"no_conflict"`
	OriginalWork        bool             `json:"original_work" yaml:"original_work"`
	ArticleFileURLs     []string         `json:"article_files_urls" yaml:"article_files_urls"`
	ImageAnnexURLs      []string         `json:"image_annexes_urls,omitempty" yaml:"image_annexes_urls,omitempty"`
	Status              SubmissionStatus `json:"status" yaml:"status"`
	SubmittedAt         time.Time        `json:"submitted_at" yaml:"submitted_at"`
}
