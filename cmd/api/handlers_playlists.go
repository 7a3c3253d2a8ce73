package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/apperr"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/response"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/service"
)

type createPlaylistRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

type updatePlaylistRequest struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
}

func (api *API) createPlaylist(c *gin.Context) {
	var req createPlaylistRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, apperr.BadRequest("Invalid request body"))
		return
	}

	playlist, err := api.playlists.Create(c.Request.Context(), principal(c), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, playlist, "Playlist created successfully")
}

func (api *API) getUserPlaylists(c *gin.Context) {
	playlists, err := api.playlists.ListByOwner(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"playlists": playlists}, "User playlists fetched successfully")
}

func (api *API) getPlaylist(c *gin.Context) {
	playlist, err := api.playlists.Get(c.Request.Context(), c.Param("playlistId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, playlist, "Playlist fetched successfully")
}

func (api *API) updatePlaylist(c *gin.Context) {
	var req updatePlaylistRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, apperr.BadRequest("Invalid request body"))
		return
	}

	playlist, err := api.playlists.Update(c.Request.Context(), principal(c), c.Param("playlistId"),
		service.PlaylistUpdate{Name: req.Name, Description: req.Description})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, playlist, "Playlist updated successfully")
}

func (api *API) deletePlaylist(c *gin.Context) {
	if err := api.playlists.Delete(c.Request.Context(), principal(c), c.Param("playlistId")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, nil, "Playlist deleted successfully")
}

func (api *API) addVideoToPlaylist(c *gin.Context) {
	playlist, err := api.playlists.AddVideo(c.Request.Context(), principal(c), c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, playlist, "Video added to playlist successfully")
}

func (api *API) removeVideoFromPlaylist(c *gin.Context) {
	playlist, err := api.playlists.RemoveVideo(c.Request.Context(), principal(c), c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, playlist, "Video removed from playlist successfully")
}
