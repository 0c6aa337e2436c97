package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"encrypto-chat/internal/addressing"
	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
)

type handler struct {
	svc Services
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Users.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) issueChallenge(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueChallengeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Auth.IssueChallenge(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) verifyChallenge(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyChallengeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Auth.VerifyChallenge(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) userIDByEmail(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.Users.GetIDByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CreateUserResponse{UserID: id.String()})
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	id, err := h.svc.Users.GetIDByEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ownedBy(w, r, id) {
		return
	}
	if err := h.svc.Users.DeleteByEmail(r.Context(), email); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := ownedPathUser(w, r, "userId")
	if !ok {
		return
	}
	res, err := h.svc.Users.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := ownedPathUser(w, r, "userId")
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Users.UpdateProfile(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if sub, _ := SubjectFrom(r.Context()); strings.TrimSpace(req.SenderID) != "" && strings.TrimSpace(req.SenderID) != sub {
		writeMessage(w, http.StatusForbidden, "sender does not match token subject")
		return
	}
	res, err := h.svc.Messages.Send(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handler) listMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := ownedPathUser(w, r, "userId")
	if !ok {
		return
	}
	res, err := h.svc.Messages.List(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) deleteUserMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := ownedPathUser(w, r, "userId")
	if !ok {
		return
	}
	n, err := h.svc.Messages.DeleteUserMessages(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DeleteMessagesResponse{Deleted: n})
}

func (h *handler) deleteConversation(w http.ResponseWriter, r *http.Request) {
	convID := chi.URLParam(r, "conversationId")
	sub, _ := SubjectFrom(r.Context())
	if !addressing.Includes(convID, sub) {
		writeMessage(w, http.StatusForbidden, "not a participant")
		return
	}
	if err := h.svc.Messages.DeleteConversation(r.Context(), convID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) sendChatbotMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatbotMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if sub, _ := SubjectFrom(r.Context()); strings.TrimSpace(req.UserID) != "" && strings.TrimSpace(req.UserID) != sub {
		writeMessage(w, http.StatusForbidden, "user does not match token subject")
		return
	}
	res, err := h.svc.Chatbot.Send(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) listChatbotMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := ownedPathUser(w, r, "userId")
	if !ok {
		return
	}
	res, err := h.svc.Chatbot.List(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) addContact(w http.ResponseWriter, r *http.Request) {
	id, ok := ownedPathUser(w, r, "userId")
	if !ok {
		return
	}
	var req dto.AddContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Contacts.Add(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handler) listContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := ownedPathUser(w, r, "userId")
	if !ok {
		return
	}
	res, err := h.svc.Contacts.List(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) removeContact(w http.ResponseWriter, r *http.Request) {
	id, ok := ownedPathUser(w, r, "userId")
	if !ok {
		return
	}
	contactID, err := uuid.Parse(chi.URLParam(r, "contactId"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid contactId")
		return
	}
	if err := h.svc.Contacts.Remove(r.Context(), id, contactID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedPathUser parses the user id path parameter and checks that it belongs
// to the token subject.
func ownedPathUser(w http.ResponseWriter, r *http.Request, param string) (domain.UserID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid "+param)
		return uuid.Nil, false
	}
	return id, ownedBy(w, r, id)
}

func ownedBy(w http.ResponseWriter, r *http.Request, id domain.UserID) bool {
	sub, _ := SubjectFrom(r.Context())
	if sub != id.String() {
		writeMessage(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}
