package homework

import "fmt"

// MissingFieldError reports a homework record without a required key.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("homework record has no %q field", e.Field)
}

// StatusNotFoundError reports a review status outside the known set.
type StatusNotFoundError struct {
	Homework string
	Status   Status
}

func (e *StatusNotFoundError) Error() string {
	return fmt.Sprintf("review status of %q was updated but %q is not recognized", e.Homework, e.Status)
}

// Verdict turns a homework record into the message sent to the student.
func Verdict(hw Homework) (string, error) {
	name, ok := hw.Name()
	if !ok {
		return "", &MissingFieldError{Field: FieldName}
	}
	status, ok := hw.Status()
	if !ok {
		return "", &MissingFieldError{Field: FieldStatus}
	}

	switch status {
	case StatusReviewing:
		return fmt.Sprintf("%s accepted for review.", name), nil
	case StatusRejected:
		return fmt.Sprintf("Review complete: issues found in %s.", name), nil
	case StatusApproved:
		return fmt.Sprintf("%s has been accepted! :)", name), nil
	default:
		return "", &StatusNotFoundError{Homework: name, Status: status}
	}
}
