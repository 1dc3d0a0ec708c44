// Package question holds the question bank model and everything needed to turn raw
// CSV/XLSX exports into ordered, identity-tagged questions.
package question

// NumParts is the number of subject parts in one exam sitting.
const NumParts = 5

// Question is a single multiple-choice item.
type Question struct {
	ID          string `json:"id,omitempty"`
	Question    string `json:"question"`
	Option1     string `json:"option1"`
	Option2     string `json:"option2"`
	Option3     string `json:"option3"`
	Option4     string `json:"option4"`
	Answer      int    `json:"answer"` // 1..4; 0 means the source had no valid answer
	Explanation string `json:"explanation"`
}

// Options returns the four choices in display order.
func (q Question) Options() [4]string {
	return [4]string{q.Option1, q.Option2, q.Option3, q.Option4}
}

// HasValidAnswer reports whether Answer points at one of the four options.
func (q Question) HasValidAnswer() bool {
	return q.Answer >= 1 && q.Answer <= 4
}

// Part is one subject area of a sitting. Question order is CSV row order.
type Part struct {
	PartNumber int        `json:"partNumber"`
	Questions  []Question `json:"questions"`
}

// ExamData is the set of parts loaded for one study session.
type ExamData struct {
	FolderName string `json:"folderName"`
	Parts      []Part `json:"parts"`
}

// AllQuestions flattens the parts in order.
func (e ExamData) AllQuestions() []Question {
	n := 0
	for _, p := range e.Parts {
		n += len(p.Questions)
	}
	all := make([]Question, 0, n)
	for _, p := range e.Parts {
		all = append(all, p.Questions...)
	}
	return all
}
