package model

import "time"

// User is an account able to take tests. PasswordHash never leaves
// the server.
type User struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	Email           string    `json:"email" bson:"email"`
	Name            string    `json:"name" bson:"name"`
	PasswordHash    string    `json:"-" bson:"passwordHash"`
	PreferredFields []Field   `json:"preferred_fields" bson:"preferredFields"`
	TotalScore      int       `json:"total_score" bson:"totalScore"`
	TestsCompleted  int       `json:"tests_completed" bson:"testsCompleted"`
	CreatedAt       time.Time `json:"created_at" bson:"createdAt"`
}
