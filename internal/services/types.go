package services

// DTOs for the tradition-room backend. Field names follow the wire format.

type GoldenBook struct {
	GoldenBookID   int64  `json:"goldenBookId"`
	GoldenBookName string `json:"goldenBookName"`
	Level          string `json:"level"`
	Year           int    `json:"year"`
	Department     string `json:"department"`
	Image          string `json:"image,omitempty"`
	Description    string `json:"description,omitempty"`
}

type GoldenBookRequest struct {
	GoldenBookName string `json:"goldenBookName"`
	Level          string `json:"level"`
	Year           int    `json:"year"`
	Department     string `json:"department"`
	Image          string `json:"image,omitempty"`
	Description    string `json:"description,omitempty"`
}

type Artifact struct {
	ArtifactID   int64  `json:"artifactId"`
	ArtifactName string `json:"artifactName"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	Period       string `json:"period,omitempty"`
	Type         string `json:"type,omitempty"`
	Space        string `json:"space,omitempty"`
}

type ArtifactRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Period      string `json:"period,omitempty"`
	Type        string `json:"type,omitempty"`
	Space       string `json:"space,omitempty"`
}

type History struct {
	HistoryID   int64  `json:"historyId"`
	Year        string `json:"year"`
	Title       string `json:"title"`
	Period      string `json:"period"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Image       string `json:"image,omitempty"`
}

type HistoryRequest struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Period      string `json:"period"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Image       string `json:"image,omitempty"`
}

type Introduction struct {
	IntroductionID int64  `json:"introductionId"`
	Section        string `json:"section"`
	Content        string `json:"content"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type IntroductionRequest struct {
	Section string `json:"section"`
	Content string `json:"content"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Fullname  string `json:"fullname"`
	Avatar    string `json:"avatar,omitempty"`
	IsLocked  bool   `json:"isLocked"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Fullname string `json:"fullname"`
	Avatar   string `json:"avatar,omitempty"`
}

type UserUpdateRequest struct {
	Fullname string `json:"fullname,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

type Image struct {
	ImageID          int64  `json:"imageId"`
	OriginalFilename string `json:"originalFilename"`
	ContentType      string `json:"contentType,omitempty"`
	FileSize         int64  `json:"fileSize"`
	Description      string `json:"description,omitempty"`
	URL              string `json:"url,omitempty"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

type ImageUpdateRequest struct {
	Description string `json:"description,omitempty"`
}

type loginResponse struct {
	UserID      int64  `json:"userId"`
	Username    string `json:"username"`
	TypeToken   string `json:"typeToken"`
	AccessToken string `json:"accessToken"`
}
