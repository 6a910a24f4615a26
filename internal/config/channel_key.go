package config

import (
	"fmt"
)

type ChannelKeyStruct struct{}

func NewChannelKeyStruct() *ChannelKeyStruct {
	return &ChannelKeyStruct{}
}

// LectureEventsChannel returns the Redis PubSub channel for a lecture's events
func (r *ChannelKeyStruct) LectureEventsChannel(lectureID int64) string {
	return fmt.Sprintf("lecture:%d:events", lectureID)
}

var ChannelKey = NewChannelKeyStruct()
