package domain

// ShareRequest is what the controller hands to the share collaborator.
type ShareRequest struct {
	URL    string
	Title  string
	Extras map[string]string
}

// NoticeID identifies a notice shown by the notice collaborator.
type NoticeID int
