package api

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// PlanRequest is the body of POST /generate-workout.
type PlanRequest struct {
	Weight            float64 `json:"weight"`
	Height            float64 `json:"height"`
	BMI               float64 `json:"bmi"`
	Gender            int     `json:"gender"` // 0 female, 1 male
	Age               int     `json:"age"`
	Hypertension      string  `json:"hypertension"` // "Yes" / "No"
	Diabetes          string  `json:"diabetes"`     // "Yes" / "No"
	FitnessGoal       string  `json:"fitness_goal"`
	WorkoutPreference string  `json:"workout_preference"`
	WorkoutLocation   string  `json:"workout_location"`
	Duration          string  `json:"duration"`
	ExperienceLevel   string  `json:"experience_level"`
}

// PlanResponse is the body returned by POST /generate-workout.
type PlanResponse struct {
	SessionID           string     `json:"session_id"`
	BMI                 float64    `json:"bmi"`
	RecommendationLevel FlexString `json:"recommendation_level"`
	FitnessAnalysis     string     `json:"fitness_analysis"`
	WorkoutPlan         string     `json:"workout_plan"`
	NutritionTips       string     `json:"nutrition_tips"`
}

// FlexString decodes a JSON string or number into a string. The service has
// sent the recommendation level both ways.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// VideoSearchRequest is the body of POST /youtube-search.
type VideoSearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// Video describes one search result.
type Video struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// WatchURL returns the public watch link for the video.
func (v Video) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

type videoSearchResponse struct {
	Videos *[]Video `json:"videos"`
}

// ConcernRequest is the body of POST /user-concerns/{session_id}.
type ConcernRequest struct {
	Concern string `json:"concern"`
}

type concernResponse struct {
	Response *string `json:"response"`
}
