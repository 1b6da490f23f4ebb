package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/zlnvch/blogverse/models"
	"github.com/zlnvch/blogverse/service"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{Service: svc}
}

type messageResponse struct {
	Message string `json:"message"`
}

type blogResponse struct {
	Blog models.Blog `json:"blog"`
}

type blogsResponse struct {
	Blogs []models.Blog `json:"blogs"`
}

type userResponse struct {
	User models.User `json:"user"`
}

type usersResponse struct {
	Users []models.User `json:"users"`
}

type userBlogsResponse struct {
	User  models.UserProfile `json:"user"`
	Blogs []models.Blog      `json:"blogs"`
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type addBlogRequest struct {
	Title  string `json:"title"`
	Desc   string `json:"desc"`
	Img    string `json:"img"`
	User   string `json:"user"`
	UserId string `json:"userId"`
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		h.sendError(w, err, "User not found", "Error fetching users")
		return
	}
	h.sendResponse(w, http.StatusOK, usersResponse{Users: users})
}

func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	user, err := h.Service.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.sendError(w, err, "User not found", "Error signing up user")
		return
	}
	h.sendResponse(w, http.StatusCreated, userResponse{User: user})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	user, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.sendError(w, err, "User not found", "Error checking user")
		return
	}
	h.sendResponse(w, http.StatusOK, userResponse{User: user})
}

func (h *Handler) HandleListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.Service.ListBlogs(r.Context())
	if err != nil {
		h.sendError(w, err, "Blog not found", "Error fetching blogs")
		return
	}
	h.sendResponse(w, http.StatusOK, blogsResponse{Blogs: blogs})
}

func (h *Handler) HandleAddBlog(w http.ResponseWriter, r *http.Request) {
	var req addBlogRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	blog, err := h.Service.CreateBlog(r.Context(), service.BlogInput{
		Title:     req.Title,
		Desc:      req.Desc,
		Img:       req.Img,
		UserEmail: req.User,
		UserId:    req.UserId,
	})
	if err != nil {
		h.sendError(w, err, "User not found", "Error creating blog")
		return
	}
	h.sendResponse(w, http.StatusOK, blogResponse{Blog: blog})
}

func (h *Handler) HandleUpdateBlog(w http.ResponseWriter, r *http.Request) {
	var update models.BlogUpdate
	if !h.decodeBody(w, r, &update) {
		return
	}

	blog, err := h.Service.UpdateBlog(r.Context(), r.PathValue("id"), update)
	if err != nil {
		h.sendError(w, err, "Blog not found", "Error updating blog")
		return
	}
	h.sendResponse(w, http.StatusOK, blogResponse{Blog: blog})
}

func (h *Handler) HandleGetBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.Service.GetBlog(r.Context(), r.PathValue("id"))
	if err != nil {
		h.sendError(w, err, "Blog not found", "Error fetching blog")
		return
	}
	h.sendResponse(w, http.StatusOK, blogResponse{Blog: blog})
}

func (h *Handler) HandleDeleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteBlog(r.Context(), r.PathValue("id")); err != nil {
		h.sendError(w, err, "Blog not found", "Error deleting blog")
		return
	}
	h.sendResponse(w, http.StatusOK, messageResponse{Message: "Successfully deleted"})
}

func (h *Handler) HandleBlogsByUser(w http.ResponseWriter, r *http.Request) {
	owner, blogs, err := h.Service.ListBlogsByOwner(r.Context(), r.PathValue("id"))
	if err != nil {
		h.sendError(w, err, "User not found", "Error fetching blogs for this user")
		return
	}
	h.sendResponse(w, http.StatusOK, userBlogsResponse{User: owner, Blogs: blogs})
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.sendResponse(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return false
	}
	return true
}

// sendError maps a service error to a status code. Store failures are logged
// in full and answered with failureMsg only.
func (h *Handler) sendError(w http.ResponseWriter, err error, notFoundMsg string, failureMsg string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		h.sendResponse(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		h.sendResponse(w, http.StatusNotFound, messageResponse{Message: notFoundMsg})
	case errors.Is(err, service.ErrAlreadyExists):
		h.sendResponse(w, http.StatusBadRequest, messageResponse{Message: "User already exists"})
	case errors.Is(err, service.ErrBadCredentials):
		h.sendResponse(w, http.StatusBadRequest, messageResponse{Message: "Incorrect password"})
	case errors.Is(err, service.ErrUnauthorizedUser):
		h.sendResponse(w, http.StatusBadRequest, messageResponse{Message: "Unauthorized user"})
	default:
		log.Printf("%s: %v", failureMsg, err)
		h.sendResponse(w, http.StatusInternalServerError, messageResponse{Message: failureMsg})
	}
}

func (h *Handler) sendResponse(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
