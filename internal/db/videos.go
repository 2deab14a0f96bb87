package db

import (
	"errors"
	"fmt"
	"log"

	"ytvd/internal/models"
)

// ErrDuplicateVideo reports that a video with the same youtube_id is
// already stored. The crawler treats it as "already known" and moves on.
var ErrDuplicateVideo = errors.New("video already exists")

// CreateVideo inserts a new video row and fills in the generated columns.
// youtube_id is unique across the whole table, so a refetched video comes
// back as ErrDuplicateVideo rather than a second row.
func CreateVideo(video *models.Video) error {
	query := `
		INSERT INTO videos (subscription_id, youtube_id, title, description, thumbnail_url, published_at, duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, watched, created_at
	`
	err := DB.QueryRowx(query,
		video.SubscriptionID, video.YoutubeID, video.Title, video.Description,
		video.ThumbnailURL, video.PublishedAt, video.DurationSeconds).
		Scan(&video.ID, &video.Watched, &video.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateVideo, video.YoutubeID)
		}
		return err
	}
	return nil
}

func GetVideoByID(id int) (models.Video, error) {
	video := models.Video{}
	err := DB.Get(&video, "SELECT * FROM videos WHERE id = $1", id)
	return video, err
}

// ListVideosByUserID returns a user's feed: unwatched first, newest first
// within each group.
func ListVideosByUserID(userID int64) ([]models.Video, error) {
	query := `
		SELECT v.id, v.subscription_id, v.youtube_id, v.title, v.description,
		       v.thumbnail_url, v.published_at, v.duration_seconds, v.watched, v.created_at
		FROM videos v
		JOIN subscriptions s ON s.id = v.subscription_id
		WHERE s.user_id = $1
		ORDER BY v.watched ASC, v.published_at DESC
	`
	var videos []models.Video
	err := DB.Select(&videos, query, userID)
	if err != nil {
		log.Printf("Error listing videos for user %d: %v", userID, err)
		return nil, err
	}
	return videos, nil
}

// ListVideos returns all videos, optionally filtered by watched state. Used
// by the GraphQL read API.
func ListVideos(watched *bool) ([]models.Video, error) {
	var videos []models.Video
	if watched == nil {
		err := DB.Select(&videos, "SELECT * FROM videos ORDER BY published_at DESC")
		return videos, err
	}
	err := DB.Select(&videos, "SELECT * FROM videos WHERE watched = $1 ORDER BY published_at DESC", *watched)
	return videos, err
}

// MarkVideoWatched flips the watched flag on one of the user's videos. The
// user check rides along in the query so one user cannot mark another's
// videos.
func MarkVideoWatched(userID int64, videoID int) error {
	query := `
		UPDATE videos SET watched = TRUE
		WHERE id = $1
		  AND subscription_id IN (SELECT id FROM subscriptions WHERE user_id = $2)
	`
	_, err := DB.Exec(query, videoID, userID)
	if err != nil {
		log.Printf("Error marking video %d watched for user %d: %v", videoID, userID, err)
		return err
	}
	return nil
}
