package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"theend-page-api/internal/service"
	resp "theend-page-api/internal/transport/http/response"
	"theend-page-api/internal/upload"
)

type PageHandler struct {
	pages       *service.PageService
	media       *upload.Saver
	maxPictures int
	log         *zap.Logger
}

func NewPageHandler(pages *service.PageService, media *upload.Saver, maxPictures int, log *zap.Logger) *PageHandler {
	if maxPictures <= 0 {
		maxPictures = 5
	}
	return &PageHandler{pages: pages, media: media, maxPictures: maxPictures, log: log}
}

type pageForm struct {
	Title         string `form:"title" binding:"required,max=191"`
	Tone          string `form:"tone" binding:"max=32"`
	Message       string `form:"message" binding:"required"`
	SecondMessage string `form:"secondMessage"`
	Published     bool   `form:"published"`
}

// Create POST /pages（multipart：字段 + pictures/music/video）
func (h *PageHandler) Create(c *gin.Context) {
	var in pageForm
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(resp.CodeBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}

	pictures, music, video, err := h.saveMedia(c)
	if err != nil {
		writeErr(c, h.log, err)
		return
	}

	p, err := h.pages.Create(c.Request.Context(), c.GetString("userId"), service.CreatePageInput{
		Title:         in.Title,
		Tone:          in.Tone,
		Message:       in.Message,
		SecondMessage: in.SecondMessage,
		Pictures:      pictures,
		Music:         music,
		Video:         video,
		Published:     in.Published,
	})
	if err != nil {
		// 入库失败（如撞标题）不留孤儿文件
		h.media.Remove(mediaNames(pictures, music, video)...)
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp.OK(gin.H{"page": p}))
}

// List GET /pages 只返回自己的
func (h *PageHandler) List(c *gin.Context) {
	pages, err := h.pages.ListOwned(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"pages": pages}))
}

// Get GET /pages/:id
func (h *PageHandler) Get(c *gin.Context) {
	p, err := h.pages.GetOwned(c.Request.Context(), c.GetString("userId"), c.Param("id"))
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"page": p}))
}

// Update PATCH /pages/:id 部分更新：只动表单里出现的字段
func (h *PageHandler) Update(c *gin.Context) {
	var in service.UpdatePageInput
	if v, ok := c.GetPostForm("title"); ok {
		in.Title = &v
	}
	if v, ok := c.GetPostForm("tone"); ok {
		in.Tone = &v
	}
	if v, ok := c.GetPostForm("message"); ok {
		in.Message = &v
	}
	if v, ok := c.GetPostForm("secondMessage"); ok {
		in.SecondMessage = &v
	}
	if v, ok := c.GetPostForm("published"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(resp.CodeBadRequest, resp.Error(resp.CodeBadRequest, "published must be a bool"))
			return
		}
		in.Published = &b
	}

	pictures, music, video, err := h.saveMedia(c)
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	if pictures != nil {
		in.Pictures = pictures
	}
	if music != "" {
		in.Music = &music
	}
	if video != "" {
		in.Video = &video
	}

	p, err := h.pages.Update(c.Request.Context(), c.GetString("userId"), c.Param("id"), in)
	if err != nil {
		h.media.Remove(mediaNames(pictures, music, video)...)
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"page": p}))
}

// Delete DELETE /pages/:id
func (h *PageHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.pages.Delete(c.Request.Context(), c.GetString("userId"), id); err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"pageId": id}))
}

func mediaNames(pictures []string, music, video string) []string {
	names := append([]string(nil), pictures...)
	if music != "" {
		names = append(names, music)
	}
	if video != "" {
		names = append(names, video)
	}
	return names
}

// saveMedia 非 multipart 请求直接跳过（三者均为空）
func (h *PageHandler) saveMedia(c *gin.Context) (pictures []string, music, video string, err error) {
	form, formErr := c.MultipartForm()
	if formErr != nil || form == nil {
		return nil, "", "", nil
	}

	files := form.File["pictures"]
	if len(files) > h.maxPictures {
		files = files[:h.maxPictures]
	}
	for _, fh := range files {
		name, e := h.media.SaveImage(fh)
		if e != nil {
			return nil, "", "", e
		}
		pictures = append(pictures, name)
	}
	if fhs := form.File["music"]; len(fhs) > 0 {
		if music, err = h.media.SaveAudio(fhs[0]); err != nil {
			return nil, "", "", err
		}
	}
	if fhs := form.File["video"]; len(fhs) > 0 {
		if video, err = h.media.SaveVideo(fhs[0]); err != nil {
			return nil, "", "", err
		}
	}
	return pictures, music, video, nil
}
