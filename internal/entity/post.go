package entity

import (
	"encoding/json"
	"fmt"
)

// Target — пара (платформа, аккаунт), в которую направляется операция
type Target struct {
	Platform Platform `json:"platform"`
	UserID   string   `json:"user_id"`
}

// PostContent — один элемент контента поста
type PostContent struct {
	Text string `json:"text"`
}

// Thread — упорядоченная цепочка контента. В JSON принимает как одиночный
// объект (обычный пост), так и массив (тред).
type Thread []PostContent

func (t *Thread) UnmarshalJSON(data []byte) error {
	var many []PostContent
	if err := json.Unmarshal(data, &many); err == nil {
		*t = many
		return nil
	}
	var single PostContent
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("content must be an object or an array of objects: %w", err)
	}
	*t = Thread{single}
	return nil
}

// IsEmpty возвращает true, если в цепочке нет ни одного непустого элемента
func (t Thread) IsEmpty() bool {
	for _, c := range t {
		if c.Text != "" {
			return false
		}
	}
	return true
}

// PostRequest — единый запрос на операцию, раздаваемую по всем целям.
// После успешной валидации запрос не изменяется.
type PostRequest struct {
	// SignerID и Operation заполняются слоем delivery, а не клиентом
	SignerID  string    `json:"-"`
	Operation Operation `json:"-"`

	Targets  []Target `json:"targets"`
	Content  Thread   `json:"content"`
	MediaIDs []int    `json:"media_ids,omitempty"`
	// Ref — ссылка на существующий пост платформы (для repost/quote/reply/like/unlike/delete)
	Ref string `json:"ref,omitempty"`

	// Attachments заполняется ядром из MediaIDs перед раздачей
	Attachments []*Upload `json:"-"`
}

// IsValid структурно проверяет запрос. Порядок проверок фиксирован:
// цели, платформы целей, контент, ссылка на пост.
func (r *PostRequest) IsValid() *CanonicalError {
	if len(r.Targets) == 0 {
		return NewValidationError("at least one target is required", "targets")
	}
	for _, target := range r.Targets {
		if !target.Platform.IsSupported() {
			err := NewValidationError("unsupported platform", "targets.platform")
			err.Details["value"] = string(target.Platform)
			return err
		}
	}
	if r.Operation.RequiresContent() && r.Content.IsEmpty() {
		return NewValidationError("content must not be empty", "content")
	}
	if r.Operation.RequiresRef() && r.Ref == "" {
		return NewValidationError("post reference is required", "ref")
	}
	return nil
}
