package twitter

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// apiError — ошибка API с нативным кодом платформы.
// Код извлекается из тела ответа; если платформа его не прислала,
// используется HTTP-статус ответа.
type apiError struct {
	HTTPStatus int
	Code       int
	Message    string
	RetryAfter int
}

func (e *apiError) Error() string {
	return fmt.Sprintf("twitter api error %d: %s", e.Code, e.Message)
}

func (e *apiError) NativeErrorCode() string {
	return strconv.Itoa(e.Code)
}

func (e *apiError) RetryAfterSeconds() int {
	return e.RetryAfter
}

type errorBody struct {
	// формат v1.1, до сих пор используется частью ответов об ошибках
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	// формат v2
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func parseAPIError(httpStatus int, body []byte) error {
	parsed := &apiError{
		HTTPStatus: httpStatus,
		Code:       httpStatus,
		Message:    fmt.Sprintf("unexpected status %d", httpStatus),
	}
	var decoded errorBody
	if err := json.Unmarshal(body, &decoded); err == nil {
		switch {
		case len(decoded.Errors) > 0:
			parsed.Code = decoded.Errors[0].Code
			parsed.Message = decoded.Errors[0].Message
		case decoded.Detail != "":
			parsed.Message = decoded.Detail
		case decoded.Title != "":
			parsed.Message = decoded.Title
		}
	}
	// 429 без кода в теле — лимит платформы
	if httpStatus == 429 && parsed.Code == httpStatus {
		parsed.Code = 88
	}
	return parsed
}
