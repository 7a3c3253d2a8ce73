package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/apperr"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/response"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/service"
)

type updateVideoRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
}

func (api *API) listVideos(c *gin.Context) {
	page, err := api.videos.List(c.Request.Context(), service.ListParams{
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
		UserID:   c.Query("userId"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, page, "Videos fetched successfully")
}

// publishVideo accepts a multipart form with a required videoFile part and an
// optional thumbnail part
func (api *API) publishVideo(c *gin.Context) {
	videoPath, videoSize, cleanupVideo, err := api.saveUpload(c, "videoFile")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cleanupVideo()

	thumbnailPath, _, cleanupThumbnail, err := api.saveUpload(c, "thumbnail")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cleanupThumbnail()

	video, err := api.videos.Publish(c.Request.Context(), principal(c), service.PublishInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		VideoPath:     videoPath,
		VideoSize:     videoSize,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, video, "Video uploaded successfully")
}

func (api *API) getVideo(c *gin.Context) {
	video, err := api.videos.Get(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, video, "Video fetched successfully")
}

// updateVideo accepts JSON, or a multipart form when a new thumbnail is sent
func (api *API) updateVideo(c *gin.Context) {
	var req updateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, apperr.BadRequest("Invalid request body"))
		return
	}

	thumbnailPath, _, cleanup, err := api.saveUpload(c, "thumbnail")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cleanup()

	video, err := api.videos.Update(c.Request.Context(), principal(c), c.Param("videoId"), service.VideoUpdate{
		Title:         req.Title,
		Description:   req.Description,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, video, "Video details updated successfully")
}

func (api *API) deleteVideo(c *gin.Context) {
	if err := api.videos.Delete(c.Request.Context(), principal(c), c.Param("videoId")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, nil, "Video deleted successfully")
}

func (api *API) togglePublish(c *gin.Context) {
	video, err := api.videos.TogglePublish(c.Request.Context(), principal(c), c.Param("videoId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, video, "Publish status toggled successfully")
}
