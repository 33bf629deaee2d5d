// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Author holds one entry of a paper's author list as parsed from the
// literature source. Email and Affiliation are frequently missing or
// incomplete upstream; consumers must tolerate empty values.
type Author struct {
	// LastName is the author's family name.
	LastName string `json:"last_name" yaml:"last_name"`

	// FirstName is the author's given name.
	FirstName string `json:"first_name,omitempty" yaml:"first_name,omitempty"`

	// Initials are the author's initials as supplied by the source.
	Initials string `json:"initials,omitempty" yaml:"initials,omitempty"`

	// Email is the author's contact address, when one could be extracted
	// from the affiliation text.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Affiliation is the free-text institutional description for this author.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// DisplayName formats the author as "Last, First", falling back to initials
// and finally to the bare last name.
func (a Author) DisplayName() string {
	switch {
	case a.FirstName != "":
		return a.LastName + ", " + a.FirstName
	case a.Initials != "":
		return a.LastName + ", " + a.Initials
	default:
		return a.LastName
	}
}

// Paper holds the metadata of one retrieved publication. Records are created
// by the PubMed parser and consumed read-only by the classifier.
type Paper struct {
	// PubmedID is the unique PubMed identifier (PMID).
	PubmedID string `json:"pubmed_id" yaml:"pubmed_id"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// PublicationDate is the publication date as supplied by the source.
	// PubMed dates are ragged ("2024", "2024 May", "2024 May 03"), so the
	// value is kept verbatim rather than parsed into a time.Time.
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// Journal is the journal title.
	Journal string `json:"journal" yaml:"journal"`

	// Abstract is the article abstract, when present.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Authors lists the paper authors in source order.
	Authors []Author `json:"authors" yaml:"authors"`

	// CorrespondingEmail is the corresponding author's email, when found.
	CorrespondingEmail string `json:"corresponding_author_email,omitempty" yaml:"corresponding_author_email,omitempty"`
}
