package user

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registeredUser(t *testing.T) (*Handler, *User) {
	t.Helper()
	svc, _, _ := newTestService(t)
	u, err := svc.Register(context.Background(), RegisterInput{
		Email:           "ana@example.com",
		Password:        validPassword,
		ConfirmPassword: validPassword,
		FullName:        "Ana",
	})
	require.NoError(t, err)
	return NewHandler(svc, nil), u
}

func decodeBody(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestHandleGetProfile_Unauthorized(t *testing.T) {
	h, _ := registeredUser(t)
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	w := httptest.NewRecorder()

	h.HandleGetProfile(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Unauthorized", decodeBody(t, res)["message"])
}

func TestHandleGetProfile(t *testing.T) {
	h, u := registeredUser(t)
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req = req.WithContext(WithUserID(req.Context(), u.ID))
	w := httptest.NewRecorder()

	h.HandleGetProfile(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Ana", data["full_name"])
	assert.Equal(t, "ana@example.com", data["email"])
	assert.Equal(t, true, data["notification_email"])
}

func TestHandleUpdateProfile_IgnoresEmail(t *testing.T) {
	h, u := registeredUser(t)
	payload := `{"full_name":"Ana Lima","location":"Lisbon","email":"other@example.com"}`
	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(payload))
	req = req.WithContext(WithUserID(req.Context(), u.ID))
	w := httptest.NewRecorder()

	h.HandleUpdateProfile(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, "Profile updated successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Ana Lima", data["full_name"])
	assert.Equal(t, "Lisbon", data["location"])
	assert.Equal(t, "ana@example.com", data["email"])
}

func TestHandleUpdateProfile_InvalidBody(t *testing.T) {
	h, u := registeredUser(t)
	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader("{"))
	req = req.WithContext(WithUserID(req.Context(), u.ID))
	w := httptest.NewRecorder()

	h.HandleUpdateProfile(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func avatarRequest(t *testing.T, userID, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="avatar"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req.WithContext(WithUserID(req.Context(), userID))
}

func TestHandleUploadAvatar(t *testing.T) {
	h, u := registeredUser(t)
	w := httptest.NewRecorder()

	h.HandleUploadAvatar(w, avatarRequest(t, u.ID, "me.png", "image/png", pngBytes))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, "Avatar updated successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "http://localhost:8080/storage/avatars/"+u.ID+"/avatar.png", data["avatar_url"])
}

func TestHandleUploadAvatar_NotAnImage(t *testing.T) {
	h, u := registeredUser(t)
	w := httptest.NewRecorder()

	h.HandleUploadAvatar(w, avatarRequest(t, u.ID, "notes.txt", "text/plain", []byte("hello")))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Please upload an image file", decodeBody(t, res)["message"])
}

func TestHandleUploadAvatar_MarkupDeclaredAsImage(t *testing.T) {
	h, u := registeredUser(t)
	w := httptest.NewRecorder()

	h.HandleUploadAvatar(w, avatarRequest(t, u.ID, "x.html", "image/png", []byte("<script>alert(1)</script>")))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Please upload an image file", decodeBody(t, res)["message"])
}

func TestHandleUploadAvatar_TooLarge(t *testing.T) {
	h, u := registeredUser(t)
	w := httptest.NewRecorder()

	h.HandleUploadAvatar(w, avatarRequest(t, u.ID, "big.png", "image/png", bytes.Repeat([]byte{1}, MaxAvatarBytes+10)))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
	assert.Equal(t, "Image must be less than 5MB", decodeBody(t, res)["message"])
}

func TestHandleChangePassword_PolicyViolations(t *testing.T) {
	h, u := registeredUser(t)
	payload := `{"old_password":"` + validPassword + `","new_password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/password", strings.NewReader(payload))
	req = req.WithContext(WithUserID(req.Context(), u.ID))
	w := httptest.NewRecorder()

	h.HandleChangePassword(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, "Password must be at least 8 characters", body["message"])
	assert.NotEmpty(t, body["errors"])
}

func TestHandleChangePassword_WrongOldPassword(t *testing.T) {
	h, u := registeredUser(t)
	payload := `{"old_password":"nope","new_password":"N3w!password"}`
	req := httptest.NewRequest(http.MethodPost, "/password", strings.NewReader(payload))
	req = req.WithContext(WithUserID(req.Context(), u.ID))
	w := httptest.NewRecorder()

	h.HandleChangePassword(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleChangePassword_Success(t *testing.T) {
	h, u := registeredUser(t)
	payload := `{"old_password":"` + validPassword + `","new_password":"N3w!password"}`
	req := httptest.NewRequest(http.MethodPost, "/password", strings.NewReader(payload))
	req = req.WithContext(WithUserID(req.Context(), u.ID))
	w := httptest.NewRecorder()

	h.HandleChangePassword(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
