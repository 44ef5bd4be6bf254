package validator

// StudentRegisterRequest represents the request structure for student signup.
// Registration arrives as JSON or as a multipart form carrying the photo.
type StudentRegisterRequest struct {
	Name     string  `json:"name" form:"name" validate:"required,min=1,max=100"`
	Email    string  `json:"email" form:"email" validate:"required,email"`
	Password string  `json:"password" form:"password" validate:"required,min=6,max=72"`
	Profile  string  `json:"profile" form:"profile" validate:"required,min=1,max=100"`
	Photo    *string `json:"photo" form:"-"`
}

// TeacherRegisterRequest adds the teacher-only fields to signup
type TeacherRegisterRequest struct {
	Name     string  `json:"name" form:"name" validate:"required,min=1,max=100"`
	Email    string  `json:"email" form:"email" validate:"required,email"`
	Password string  `json:"password" form:"password" validate:"required,min=6,max=72"`
	Profile  string  `json:"profile" form:"profile" validate:"required,min=1,max=100"`
	Bio      string  `json:"bio" form:"bio" validate:"required,min=1,max=1000"`
	Photo    *string `json:"photo" form:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ModuleCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Video       string `json:"video" validate:"max=500"`
	Position    int    `json:"position" validate:"min=0"`
}

type CourseCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Category    string  `json:"category" validate:"required,min=1,max=100"`
	Price       int64   `json:"price" validate:"min=0"`
	Modules     []uint  `json:"modules"`
	Photo       *string `json:"photo"`
}

type CommentCreateRequest struct {
	CourseID uint   `json:"commentedCourse" validate:"required"`
	Text     string `json:"text" validate:"required,min=1,max=2000"`
}

type ReviewCreateRequest struct {
	CourseID uint   `json:"original" validate:"required"`
	Star     int    `json:"star" validate:"required,min=1,max=5"`
	Comment  string `json:"reviewComment" validate:"max=2000"`
}

// TransferRequest carries a course payment. The field names are the wire
// contract with the web client.
type TransferRequest struct {
	AccountNo string `json:"accountNo" validate:"required,card_number"`
	Pincode   string `json:"pincode" validate:"required,pincode"`
	ReceiveNo string `json:"receiveNo" validate:"required,card_number"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	CourseID  uint   `json:"id" validate:"required"`
	TeacherID uint   `json:"teacherId" validate:"required"`

	// Optional client token; the server derives one when absent.
	IdempotencyKey string `json:"idempotencyKey" validate:"omitempty,max=128"`
}

type TopUpRequest struct {
	Name      string `json:"name" validate:"required"`
	AccountNo string `json:"accountNo" validate:"required,card_number"`
	Pin       string `json:"pin" validate:"required,pincode"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
}

type ChatMessageRequest struct {
	RoomID uint   `json:"roomId" validate:"required"`
	Text   string `json:"textMessage" validate:"required,min=1,max=4000"`
}
