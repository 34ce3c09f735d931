package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vibeshare/vibeshare/internal/core/domain"
	"github.com/vibeshare/vibeshare/internal/core/ports"
)

type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrNoToken)
		return
	}

	posts, err := h.posts.Feed(r.Context(), user, r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, err)
		return
	}
	if posts == nil {
		posts = []*domain.Post{}
	}
	respondJSON(w, http.StatusOK, posts)
}

type createPostRequest struct {
	Type     string `json:"type"`
	MediaURL string `json:"mediaUrl"`
	Caption  string `json:"caption"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrNoToken)
		return
	}

	var input ports.CreatePostInput
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		input = ports.CreatePostInput{
			Type:     domain.PostType(r.FormValue("type")),
			Caption:  r.FormValue("caption"),
			MediaURL: r.FormValue("mediaUrl"),
		}
		upload, err := readUpload(r, "media")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		input.Media = upload
	} else {
		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		input = ports.CreatePostInput{
			Type:     domain.PostType(req.Type),
			Caption:  req.Caption,
			MediaURL: req.MediaURL,
		}
	}

	post, err := h.posts.Create(r.Context(), user, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

type updatePostRequest struct {
	Caption string `json:"caption"`
}

type updatePostResponse struct {
	Message string       `json:"message"`
	Post    *domain.Post `json:"post"`
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrNoToken)
		return
	}
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, domain.ErrPostNotFound)
		return
	}

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.posts.UpdateCaption(r.Context(), user, postID, req.Caption)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updatePostResponse{Message: "post updated", Post: post})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrNoToken)
		return
	}
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, domain.ErrPostNotFound)
		return
	}

	if err := h.posts.Delete(r.Context(), user, postID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "post deleted")
}

type likeResponse struct {
	Likes   int         `json:"likes"`
	LikedBy []uuid.UUID `json:"likedBy"`
}

func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrNoToken)
		return
	}
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, domain.ErrPostNotFound)
		return
	}

	likedBy, err := h.posts.ToggleLike(r.Context(), user, postID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, likeResponse{Likes: len(likedBy), LikedBy: likedBy})
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrNoToken)
		return
	}
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, domain.ErrPostNotFound)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.posts.AddComment(r.Context(), user, postID, req.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrNoToken)
		return
	}
	postID, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		respondError(w, domain.ErrPostNotFound)
		return
	}
	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		respondError(w, domain.ErrCommentNotFound)
		return
	}

	if err := h.posts.DeleteComment(r.Context(), user, postID, commentID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "comment deleted")
}
