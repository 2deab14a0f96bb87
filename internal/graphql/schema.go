// Package graphql exposes a read-only query API over users, subscriptions
// and videos. Mutations stay on the form handlers.
package graphql

import (
	"github.com/graphql-go/graphql"

	"ytvd/internal/db"
)

// NewSchema builds the query schema. Resolvers read straight from the
// repository; there is no write surface here.
func NewSchema() (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.Int},
			"username":  &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	subscriptionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Subscription",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"userId":      &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"youtubeId":   &graphql.Field{Type: graphql.String},
			"itemType":    &graphql.Field{Type: graphql.String},
			"lastChecked": &graphql.Field{Type: graphql.DateTime},
			"createdAt":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	videoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Video",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.Int},
			"subscriptionId":  &graphql.Field{Type: graphql.Int},
			"youtubeId":       &graphql.Field{Type: graphql.String},
			"title":           &graphql.Field{Type: graphql.String},
			"description":     &graphql.Field{Type: graphql.String},
			"thumbnailUrl":    &graphql.Field{Type: graphql.String},
			"publishedAt":     &graphql.Field{Type: graphql.DateTime},
			"durationSeconds": &graphql.Field{Type: graphql.Int},
			"watched":         &graphql.Field{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"allUsers": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return db.GetAllUsers()
				},
			},
			"allSubscriptions": &graphql.Field{
				Type: graphql.NewList(subscriptionType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return db.GetAllSubscriptions()
				},
			},
			"allVideos": &graphql.Field{
				Type: graphql.NewList(videoType),
				Args: graphql.FieldConfigArgument{
					"watched": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var watched *bool
					if v, ok := p.Args["watched"].(bool); ok {
						watched = &v
					}
					return db.ListVideos(watched)
				},
			},
			"subscription": &graphql.Field{
				Type: subscriptionType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return db.GetSubscriptionByID(p.Args["id"].(int))
				},
			},
			"video": &graphql.Field{
				Type: videoType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return db.GetVideoByID(p.Args["id"].(int))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}
