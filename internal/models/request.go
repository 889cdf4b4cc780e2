package models

type TokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type CreateCourseRequest struct {
	Name           string  `json:"name"`
	InstructorName string  `json:"instructorName"`
	InstructorImg  string  `json:"instructorImg"`
	AvailableSeats int     `json:"availableSeats"`
	Price          float64 `json:"price"`
	Image          string  `json:"image"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

type AddToCartRequest struct {
	CourseID string  `json:"courseId"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
}

type PaymentIntentRequest struct {
	Price float64 `json:"price"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type RecordPaymentRequest struct {
	TransactionID string   `json:"transactionId"`
	Amount        float64  `json:"amount"`
	CartID        string   `json:"cartId"`
	CartItems     []string `json:"cartItems,omitempty"`
}

// InsertResult, UpdateResult and DeleteResult mirror the write results the
// collection reports, which the client renders directly.
type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

type RecordPaymentResponse struct {
	InsertResult InsertResult `json:"insertResult"`
	DeleteResult DeleteResult `json:"deleteResult"`
}
