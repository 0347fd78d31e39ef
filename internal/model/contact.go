package model

// Contact is a message submitted through the contact form.
type Contact struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
	Date    string `json:"date,omitempty"`
	Status  string `json:"status,omitempty"`
}

// ContactFromDocument converts a stored record into a Contact. Fields of an
// unexpected JSON type degrade to their text form instead of failing.
func ContactFromDocument(d Document) Contact {
	return Contact{
		ID:      d.Text("id"),
		Name:    d.Text("name"),
		Email:   d.Text("email"),
		Phone:   d.Text("phone"),
		Message: d.Text("message"),
		Date:    d.Text("date"),
		Status:  d.Text("status"),
	}
}

// SubmitContactResponse is returned by POST /api/contacts.
type SubmitContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is returned by the list endpoints on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
