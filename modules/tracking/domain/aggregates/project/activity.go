package project

import "github.com/eduobras/seguimiento/pkg/normalize"

// Activity is a contracted work item scoped to a project; its description
// is unique only among the activities of the same project.
type Activity struct {
	id          int64
	projectID   int64
	description string
}

func NewActivity(projectID int64, description string) Activity {
	return Activity{projectID: projectID, description: normalize.Name(description)}
}

func HydrateActivity(id, projectID int64, description string) Activity {
	return Activity{id: id, projectID: projectID, description: description}
}

func (a Activity) ID() int64           { return a.id }
func (a Activity) ProjectID() int64    { return a.projectID }
func (a Activity) Description() string { return a.description }
