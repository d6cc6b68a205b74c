package echoapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/subject"
	"github.com/trezcool/darasa/core/user"
)

// streamChunkSize caps how much video is served per range request.
const streamChunkSize int64 = 1 << 20 // 1MB

type subjectApi struct {
	svc      *subject.Service
	usrSvc   *user.Service
	mediaSvc core.MediaStore
}

func registerSubjectAPI(
	g *echo.Group,
	jwt, jwtQuery echo.MiddlewareFunc,
	svc *subject.Service,
	usrSvc *user.Service,
	mediaSvc core.MediaStore,
) {
	api := subjectApi{svc: svc, usrSvc: usrSvc, mediaSvc: mediaSvc}

	sg := g.Group("/subjects", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create, adminMiddleware())
	sg.GET("/:id", api.retrieve)
	sg.GET("/:id/teachers", api.queryTeachers)
	sg.POST("/:id/teachers", api.addTeacher, adminMiddleware())

	lg := sg.Group("/:id/lessons")
	lg.GET("", api.queryLessons)
	lg.POST("", api.addLesson, roleMiddleware(user.RoleTeacher, user.RoleAdmin))
	lg.GET("/:lessonID", api.retrieveLesson)
	lg.PUT("/:lessonID", api.editLesson, roleMiddleware(user.RoleTeacher, user.RoleAdmin))
	lg.DELETE("/:lessonID", api.deleteLesson, roleMiddleware(user.RoleTeacher, user.RoleAdmin))

	ag := sg.Group("/:id/articles")
	ag.GET("", api.queryArticles)
	ag.POST("", api.addArticle, roleMiddleware(user.RoleTeacher, user.RoleAdmin))
	ag.GET("/:articleID", api.retrieveArticle)
	ag.PUT("/:articleID", api.editArticle, roleMiddleware(user.RoleTeacher, user.RoleAdmin))
	ag.DELETE("/:articleID", api.deleteArticle, roleMiddleware(user.RoleTeacher, user.RoleAdmin))

	// video players pass the token as a query param, not a header
	g.GET("/subjects/:id/lessons/:lessonID/stream", api.streamLesson, jwtQuery)
}

// SubjectResponse is the subject detail shape with members and content
// resolved for display.
type SubjectResponse struct {
	ID       string                     `json:"id"`
	Name     string                     `json:"name"`
	Teachers []user.Response            `json:"teachers"`
	Lessons  []*subject.LessonResponse  `json:"lessons"`
	Articles []*subject.ArticleResponse `json:"articles"`
}

// Handlers

func (api *subjectApi) create(ctx echo.Context) error {
	var data subject.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, subject.Summary{ID: sub.ID, Name: sub.Name})
}

func (api *subjectApi) query(ctx echo.Context) error {
	subjects, err := api.svc.GetAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *subjectApi) retrieve(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	h := api.svc.Subject(ctx.Param("id"))

	sub, err := h.Get(rctx)
	if err != nil {
		return errors.Wrap(err, "finding subject")
	}
	teachers, err := h.Teachers(rctx)
	if err != nil {
		return errors.Wrap(err, "resolving subject teachers")
	}
	lessons, err := h.Lessons(rctx)
	if err != nil {
		return errors.Wrap(err, "resolving subject lessons")
	}
	articles, err := h.Articles(rctx)
	if err != nil {
		return errors.Wrap(err, "resolving subject articles")
	}

	return ctx.JSON(http.StatusOK, SubjectResponse{
		ID:       sub.ID,
		Name:     sub.Name,
		Teachers: teachers,
		Lessons:  lessons,
		Articles: articles,
	})
}

func (api *subjectApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.Subject(ctx.Param("id")).Teachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "resolving subject teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *subjectApi) addTeacher(ctx echo.Context) error {
	var data subject.AddTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddTeacher")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	h := api.svc.Subject(ctx.Param("id"))
	if err := h.AddTeacher(rctx, data.TeacherID); err != nil {
		return errors.Wrap(err, "adding subject teacher")
	}
	teachers, err := h.Teachers(rctx)
	if err != nil {
		return errors.Wrap(err, "resolving subject teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

// Lessons

// addLesson accepts a multipart form: the lesson fields plus the video file
// itself, which is persisted to the media store before the lesson record.
func (api *subjectApi) addLesson(ctx echo.Context) error {
	data := subject.NewLesson{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
	}
	if err := data.Validate(); err != nil {
		return err
	}

	fh, err := ctx.FormFile("video")
	if err != nil {
		return core.NewBadRequestError("video file is required")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	h := api.svc.Subject(ctx.Param("id"))

	// the subject must exist before the video is persisted; a bad id must
	// not leave an orphaned media file
	if _, err = h.Get(rctx); err != nil {
		return errors.Wrap(err, "finding subject")
	}

	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening video upload")
	}
	defer src.Close()

	locator, err := api.mediaSvc.Save(fh.Filename, src)
	if err != nil {
		return errors.Wrap(err, "saving video upload")
	}

	lesson, err := h.AddLesson(rctx, data, claims.Subject, locator)
	if err != nil {
		_ = api.mediaSvc.Remove(locator)
		return errors.Wrap(err, "adding lesson")
	}
	return ctx.JSON(http.StatusCreated, h.LessonResponse(rctx, lesson))
}

func (api *subjectApi) queryLessons(ctx echo.Context) error {
	lessons, err := api.svc.Subject(ctx.Param("id")).Lessons(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *subjectApi) retrieveLesson(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	h := api.svc.Subject(ctx.Param("id"))
	lesson, err := h.Lesson(rctx, ctx.Param("lessonID"))
	if err != nil {
		return errors.Wrap(err, "finding lesson")
	}
	return ctx.JSON(http.StatusOK, h.LessonResponse(rctx, lesson))
}

func (api *subjectApi) editLesson(ctx echo.Context) error {
	var data subject.EditLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditLesson")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	h := api.svc.Subject(ctx.Param("id"))
	id := ctx.Param("lessonID")

	lesson, err := h.Lesson(rctx, id)
	if err != nil {
		return errors.Wrap(err, "finding lesson")
	}
	if err = api.checkAuthor(ctx, lesson.Author); err != nil {
		return err
	}
	if err = h.EditLesson(rctx, id, data); err != nil {
		return errors.Wrap(err, "editing lesson")
	}

	lesson, err = h.Lesson(rctx, id)
	if err != nil {
		return errors.Wrap(err, "finding lesson")
	}
	return ctx.JSON(http.StatusOK, h.LessonResponse(rctx, lesson))
}

func (api *subjectApi) deleteLesson(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	h := api.svc.Subject(ctx.Param("id"))
	id := ctx.Param("lessonID")

	lesson, err := h.Lesson(rctx, id)
	if err != nil {
		return errors.Wrap(err, "finding lesson")
	}
	if err = api.checkAuthor(ctx, lesson.Author); err != nil {
		return err
	}
	if err = h.DeleteLesson(rctx, id); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// streamLesson serves the lesson video one chunk at a time. A Range header is
// required; the response covers at most streamChunkSize bytes from the
// requested offset.
func (api *subjectApi) streamLesson(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	h := api.svc.Subject(ctx.Param("id"))
	lesson, err := h.Lesson(rctx, ctx.Param("lessonID"))
	if err != nil {
		return errors.Wrap(err, "finding lesson")
	}

	start, err := parseRangeStart(ctx.Request().Header.Get("Range"))
	if err != nil {
		return err
	}

	f, size, err := api.mediaSvc.Open(lesson.Video)
	if err != nil {
		return errors.Wrap(err, "opening lesson video")
	}
	defer f.Close()

	if start >= size {
		return echo.NewHTTPError(http.StatusRequestedRangeNotSatisfiable, "range out of bounds")
	}
	end := start + streamChunkSize - 1
	if end >= size {
		end = size - 1
	}
	if _, err = f.Seek(start, io.SeekStart); err != nil {
		return errors.Wrap(err, "seeking lesson video")
	}

	resp := ctx.Response()
	resp.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	resp.Header().Set("Accept-Ranges", "bytes")
	resp.Header().Set(echo.HeaderContentLength, strconv.FormatInt(end-start+1, 10))
	resp.Header().Set(echo.HeaderContentType, "video/mp4")
	resp.WriteHeader(http.StatusPartialContent)

	_, err = io.CopyN(resp, f, end-start+1)
	return err
}

// parseRangeStart extracts the byte offset from a `bytes=N-` Range header.
func parseRangeStart(header string) (int64, error) {
	if header == "" {
		return 0, errRangeRequired
	}
	spec := strings.TrimPrefix(header, "bytes=")
	if spec == header {
		return 0, errRangeRequired
	}
	start, err := strconv.ParseInt(strings.SplitN(spec, "-", 2)[0], 10, 64)
	if err != nil || start < 0 {
		return 0, errRangeRequired
	}
	return start, nil
}

// Articles

func (api *subjectApi) addArticle(ctx echo.Context) error {
	var data subject.NewArticle
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewArticle")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	h := api.svc.Subject(ctx.Param("id"))
	article, err := h.AddArticle(rctx, data, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "adding article")
	}
	return ctx.JSON(http.StatusCreated, h.ArticleResponse(rctx, article))
}

func (api *subjectApi) queryArticles(ctx echo.Context) error {
	articles, err := api.svc.Subject(ctx.Param("id")).Articles(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing articles")
	}
	return ctx.JSON(http.StatusOK, articles)
}

func (api *subjectApi) retrieveArticle(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	h := api.svc.Subject(ctx.Param("id"))
	article, err := h.Article(rctx, ctx.Param("articleID"))
	if err != nil {
		return errors.Wrap(err, "finding article")
	}
	return ctx.JSON(http.StatusOK, h.ArticleResponse(rctx, article))
}

func (api *subjectApi) editArticle(ctx echo.Context) error {
	var data subject.EditArticle
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditArticle")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	h := api.svc.Subject(ctx.Param("id"))
	id := ctx.Param("articleID")

	article, err := h.Article(rctx, id)
	if err != nil {
		return errors.Wrap(err, "finding article")
	}
	if err = api.checkAuthor(ctx, article.Author); err != nil {
		return err
	}
	if err = h.EditArticle(rctx, id, data); err != nil {
		return errors.Wrap(err, "editing article")
	}

	article, err = h.Article(rctx, id)
	if err != nil {
		return errors.Wrap(err, "finding article")
	}
	return ctx.JSON(http.StatusOK, h.ArticleResponse(rctx, article))
}

func (api *subjectApi) deleteArticle(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	h := api.svc.Subject(ctx.Param("id"))
	id := ctx.Param("articleID")

	article, err := h.Article(rctx, id)
	if err != nil {
		return errors.Wrap(err, "finding article")
	}
	if err = api.checkAuthor(ctx, article.Author); err != nil {
		return err
	}
	if err = h.DeleteArticle(rctx, id); err != nil {
		return errors.Wrap(err, "deleting article")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// checkAuthor only lets content authors touch their own lessons and articles;
// admins bypass the check.
func (api *subjectApi) checkAuthor(ctx echo.Context, author string) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if claims.Role == user.RoleAdmin || claims.Subject == author {
		return nil
	}
	return errUnauthorized
}
