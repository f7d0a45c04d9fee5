package server

// Request payloads, one struct per operation. Required and optional fields
// are enumerated explicitly; validation tags carry the catalog's input
// constraints so malformed requests never reach the engine.

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required"`
}

type createBookRequest struct {
	Author string `json:"author" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Year   int    `json:"year" validate:"required,gte=1900"`
	Genre  string `json:"genre" validate:"required"`
	Length int    `json:"length" validate:"required,gt=0"`
}

// bookKeyRequest addresses a catalog book by its compound key.
type bookKeyRequest struct {
	Author string `json:"author" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Year   int    `json:"year" validate:"required,gte=1900"`
}

type moveToSelectionRequest struct {
	Author          string `json:"author" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Year            int    `json:"year" validate:"required,gte=1900"`
	SelectionNumber int    `json:"selection_number" validate:"required,gte=1"`
}

type swapRequest struct {
	SelectionNumber1 int `json:"selection_number_1" validate:"required,gte=1"`
	SelectionNumber2 int `json:"selection_number_2" validate:"required,gte=1"`
}
