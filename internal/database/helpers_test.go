package database

import "go.mongodb.org/mongo-driver/mongo"

func indexNames(models []mongo.IndexModel) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		if m.Options != nil && m.Options.Name != nil {
			out = append(out, *m.Options.Name)
		}
	}
	return out
}
