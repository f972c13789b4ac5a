package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"yatube/app/media"
	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/services"

	"github.com/gorilla/mux"
)

// maxFormBytes bounds a post form including its image.
const maxFormBytes = media.MaxImageBytes + 1<<20

// PostController handles HTTP requests for blog posts and their comments
type PostController struct {
	postService    *services.PostService
	commentService *services.CommentService
	groupService   *services.GroupService
	view           *View
}

// NewPostController creates a new PostController
func NewPostController(posts *services.PostService, comments *services.CommentService, groups *services.GroupService, view *View) *PostController {
	return &PostController{
		postService:    posts,
		commentService: comments,
		groupService:   groups,
		view:           view,
	}
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		pc.view.NotFound(w, r)
		return
	}
	pc.renderDetail(w, r, id, formData{}, nil)
}

func (pc *PostController) renderDetail(w http.ResponseWriter, r *http.Request, id int, form formData, errs models.ValidationError) {
	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		pc.view.handleError(w, r, err)
		return
	}
	ctx := r.Context()
	postView, err := postViews(ctx, []*models.Post{post})
	if err != nil {
		pc.view.handleError(w, r, err)
		return
	}
	comments, err := commentViews(ctx, post.Comments)
	if err != nil {
		pc.view.handleError(w, r, err)
		return
	}

	if wantsJSON(r) {
		out := toAPIPost(postView[0])
		out.Comments = toAPIComments(comments)
		sendJSON(w, out)
		return
	}
	pc.view.Render(w, r, "post_detail", http.StatusOK, &viewData{
		Post:     postView[0],
		Comments: comments,
		Form:     form,
		Errors:   errs,
	})
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.renderForm(w, r, formData{}, nil, false)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	in, form, closer, err := parsePostForm(w, r)
	if err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer closer()

	_, err = pc.postService.CreatePost(r.Context(), user, in)
	if ve, ok := models.AsValidationError(err); ok {
		pc.renderForm(w, r, form, ve, false)
		return
	}
	if err != nil {
		pc.view.handleError(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
}

// Edit displays the edit form to the post's author
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		pc.view.NotFound(w, r)
		return
	}
	post, err := pc.postService.EditablePost(r.Context(), middleware.CurrentUser(r.Context()), id)
	if errors.Is(err, services.ErrForbidden) {
		http.Redirect(w, r, detailURL(id), http.StatusFound)
		return
	}
	if err != nil {
		pc.view.handleError(w, r, err)
		return
	}
	pc.renderForm(w, r, formData{PostID: id, Text: post.Text, GroupID: post.GroupID}, nil, true)
}

// Update handles the submitted edit form
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		pc.view.NotFound(w, r)
		return
	}
	in, form, closer, err := parsePostForm(w, r)
	if err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer closer()
	form.PostID = id

	_, err = pc.postService.UpdatePost(r.Context(), middleware.CurrentUser(r.Context()), id, in)
	if ve, ok := models.AsValidationError(err); ok {
		pc.renderForm(w, r, form, ve, true)
		return
	}
	if err != nil && !errors.Is(err, services.ErrForbidden) {
		pc.view.handleError(w, r, err)
		return
	}
	http.Redirect(w, r, detailURL(id), http.StatusFound)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		pc.view.NotFound(w, r)
		return
	}
	user := middleware.CurrentUser(r.Context())
	err := pc.postService.DeletePost(r.Context(), user, id)
	if errors.Is(err, services.ErrForbidden) {
		http.Redirect(w, r, detailURL(id), http.StatusFound)
		return
	}
	if err != nil {
		pc.view.handleError(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
}

// AddComment handles a submitted comment. An invalid comment re-renders the post page.
func (pc *PostController) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		pc.view.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	text := r.PostFormValue("text")

	_, err := pc.commentService.AddComment(r.Context(), middleware.CurrentUser(r.Context()), id, text)
	if ve, ok := models.AsValidationError(err); ok {
		pc.renderDetail(w, r, id, formData{Text: text}, ve)
		return
	}
	if err != nil {
		pc.view.handleError(w, r, err)
		return
	}
	http.Redirect(w, r, detailURL(id), http.StatusFound)
}

// CommentRedirect sends a GET on the comment endpoint back to the post.
func (pc *PostController) CommentRedirect(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		pc.view.NotFound(w, r)
		return
	}
	http.Redirect(w, r, detailURL(id), http.StatusFound)
}

func (pc *PostController) renderForm(w http.ResponseWriter, r *http.Request, form formData, errs models.ValidationError, isEdit bool) {
	groups, err := pc.groupService.ListGroups(r.Context())
	if err != nil {
		pc.view.handleError(w, r, err)
		return
	}
	pc.view.Render(w, r, "create_post", http.StatusOK, &viewData{
		Groups: groups,
		Form:   form,
		Errors: errs,
		IsEdit: isEdit,
	})
}

// parsePostForm reads text, group and image from a urlencoded or multipart form.
// The returned closer releases the uploaded file.
func parsePostForm(w http.ResponseWriter, r *http.Request) (services.PostInput, formData, func(), error) {
	noop := func() {}
	var in services.PostInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return in, formData{}, noop, err
		}
	} else if err := r.ParseForm(); err != nil {
		return in, formData{}, noop, err
	}

	in.Text = r.PostFormValue("text")
	if raw := strings.TrimSpace(r.PostFormValue("group")); raw != "" {
		gid, err := strconv.Atoi(raw)
		if err != nil {
			// Zero is never a valid id, so validation reports it on the group field.
			gid = 0
		}
		in.GroupID = &gid
	}
	form := formData{Text: in.Text, GroupID: in.GroupID}

	closer := noop
	if r.MultipartForm != nil {
		file, _, err := r.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return in, form, noop, err
		default:
			in.Image = io.Reader(file)
			closer = func() { file.Close() }
		}
	}
	return in, form, closer, nil
}

func postID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func detailURL(id int) string {
	return "/posts/" + strconv.Itoa(id) + "/"
}
