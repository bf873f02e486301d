package usecase

// SubmitContactInput carries a contact-form submission. Metadata is the
// request context captured by the handler (ip, user agent, referer, origin);
// it is written once at creation and never mutated.
type SubmitContactInput struct {
	Name     string            `json:"name" validate:"required,max=200"`
	Email    string            `json:"email" validate:"required,email"`
	Subject  string            `json:"subject" validate:"required,max=300"`
	Message  string            `json:"message" validate:"required,max=5000"`
	Company  string            `json:"company,omitempty"`
	Role     string            `json:"role,omitempty"`
	Metadata map[string]string `json:"-"`
}

type SubmitContactOutput struct {
	Status  string `json:"status"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// RequestCVInput carries a CV-request submission; company is mandatory here.
type RequestCVInput struct {
	Name     string            `json:"name" validate:"required,max=200"`
	Email    string            `json:"email" validate:"required,email"`
	Company  string            `json:"company" validate:"required,max=200"`
	Subject  string            `json:"subject" validate:"required,max=300"`
	Message  string            `json:"message" validate:"required,max=5000"`
	Role     string            `json:"role,omitempty"`
	Metadata map[string]string `json:"-"`
}

type RequestCVOutput struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}
