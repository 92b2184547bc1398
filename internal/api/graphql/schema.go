// Package graphql is the gateway-style entry point. The schema is built at
// startup against the same services the REST handlers use; resolvers read the
// caller identity from the request context populated by the identity
// middleware, so both flavors observe an identical identity shape.
package graphql

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/openbiz/directory-api/internal/api/middleware"
	"github.com/openbiz/directory-api/internal/core/access"
	"github.com/openbiz/directory-api/internal/core/domain"
	"github.com/openbiz/directory-api/internal/core/ports"
)

// Resolver bundles the services the schema resolves against.
type Resolver struct {
	Businesses ports.BusinessService
	Users      ports.UserService
}

// NewSchema builds the executable schema.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	roleEnum := graphql.NewEnum(graphql.EnumConfig{
		Name:        "UserRole",
		Description: "Role of the user (USER or ADMIN)",
		Values: graphql.EnumValueConfigMap{
			"USER":  &graphql.EnumValueConfig{Value: domain.RoleUser},
			"ADMIN": &graphql.EnumValueConfig{Value: domain.RoleAdmin},
		},
	})

	tagTypeEnum := graphql.NewEnum(graphql.EnumConfig{
		Name:        "TagType",
		Description: "Type of tag (location, area, or field)",
		Values: graphql.EnumValueConfigMap{
			"LOCATION": &graphql.EnumValueConfig{Value: domain.TagLocation},
			"AREA":     &graphql.EnumValueConfig{Value: domain.TagArea},
			"FIELD":    &graphql.EnumValueConfig{Value: domain.TagField},
		},
	})

	tagType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Tag",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"type":      &graphql.Field{Type: graphql.NewNonNull(tagTypeEnum)},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":                        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username":                  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":                     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"firstName":                 &graphql.Field{Type: graphql.String},
			"lastName":                  &graphql.Field{Type: graphql.String},
			"phone":                     &graphql.Field{Type: graphql.String},
			"reserveServiceDescription": &graphql.Field{Type: graphql.String},
			"role":                      &graphql.Field{Type: graphql.NewNonNull(roleEnum)},
			"createdAt":                 &graphql.Field{Type: graphql.DateTime},
			"updatedAt":                 &graphql.Field{Type: graphql.DateTime},
		},
	})

	businessType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Business",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"ownerId":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"contactInfo": &graphql.Field{Type: jsonScalar},
			"links":       &graphql.Field{Type: jsonScalar},
			"photos":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"tags":        &graphql.Field{Type: graphql.NewList(tagType)},
			"createdAt":   &graphql.Field{Type: graphql.DateTime},
			"updatedAt":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	// owner and businesses are mutually recursive, so both are attached after
	// construction.
	businessType.AddFieldConfig("owner", &graphql.Field{
		Type: userType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			b, ok := p.Source.(*domain.Business)
			if !ok {
				return nil, nil
			}
			owner, err := r.Users.FindOne(p.Context, b.OwnerID)
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, nil
			}
			return owner, err
		},
	})
	userType.AddFieldConfig("businesses", &graphql.Field{
		Type: graphql.NewList(businessType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			u, ok := p.Source.(*domain.User)
			if !ok {
				return nil, nil
			}
			return r.Businesses.FindByOwner(p.Context, u.ID)
		},
	})

	connectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BusinessConnection",
		Fields: graphql.Fields{
			"nodes":      &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(businessType))},
			"nextCursor": &graphql.Field{Type: graphql.String},
			"totalCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	paginationInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PaginationInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"take":   &graphql.InputObjectFieldConfig{Type: graphql.Int, DefaultValue: ports.DefaultPageSize},
			"cursor": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	createBusinessInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateBusinessInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"contactInfo": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(jsonScalar)},
			"links":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(jsonScalar)},
			"photos":      &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		},
	})

	updateBusinessInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateBusinessInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"contactInfo": &graphql.InputObjectFieldConfig{Type: jsonScalar},
			"links":       &graphql.InputObjectFieldConfig{Type: jsonScalar},
			"photos":      &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		},
	})

	updateUserInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":                        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"firstName":                 &graphql.InputObjectFieldConfig{Type: graphql.String},
			"lastName":                  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"email":                     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"phone":                     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"reserveServiceDescription": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"businesses": &graphql.Field{
				Type: connectionType,
				Args: graphql.FieldConfigArgument{
					"pagination": &graphql.ArgumentConfig{Type: paginationInput},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page := ports.PageInput{}
					if raw, ok := p.Args["pagination"].(map[string]interface{}); ok {
						if take, ok := raw["take"].(int); ok {
							page.Take = take
						}
						if cursor, ok := raw["cursor"].(string); ok {
							page.Cursor = cursor
						}
					}
					return r.Businesses.FindAll(p.Context, page)
				},
			},
			"business": &graphql.Field{
				Type: businessType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Businesses.FindOne(p.Context, argString(p.Args, "id"))
				},
			},
			"myBusinesses": &graphql.Field{
				Type: graphql.NewList(businessType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := callerIdentity(p)
					if err != nil {
						return nil, err
					}
					return r.Businesses.FindByOwner(p.Context, id.ID)
				},
			},
			"users": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := callerIdentity(p)
					if err != nil {
						return nil, err
					}
					if err := access.Check(id, access.Roles(domain.RoleAdmin)); err != nil {
						return nil, err
					}
					return r.Users.FindAll(p.Context)
				},
			},
			"userProfile": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := callerIdentity(p)
					if err != nil {
						return nil, err
					}
					return r.Users.FindOne(p.Context, id.ID)
				},
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := callerIdentity(p)
					if err != nil {
						return nil, err
					}
					if err := access.Check(id, access.Roles(domain.RoleAdmin)); err != nil {
						return nil, err
					}
					return r.Users.FindOne(p.Context, argString(p.Args, "id"))
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createBusiness": &graphql.Field{
				Type: businessType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createBusinessInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := callerIdentity(p)
					if err != nil {
						return nil, err
					}
					in, _ := p.Args["input"].(map[string]interface{})
					return r.Businesses.Create(p.Context, id, ports.CreateBusinessInput{
						Name:        argString(in, "name"),
						Description: argString(in, "description"),
						ContactInfo: argObject(in, "contactInfo"),
						Links:       argObject(in, "links"),
						Photos:      argStrings(in, "photos"),
					})
				},
			},
			"updateBusiness": &graphql.Field{
				Type: businessType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateBusinessInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := callerIdentity(p)
					if err != nil {
						return nil, err
					}
					in, _ := p.Args["input"].(map[string]interface{})
					return r.Businesses.Update(p.Context, id, ports.UpdateBusinessInput{
						ID:          argString(in, "id"),
						Name:        argOptString(in, "name"),
						Description: argOptString(in, "description"),
						ContactInfo: argObject(in, "contactInfo"),
						Links:       argObject(in, "links"),
						Photos:      argStrings(in, "photos"),
					})
				},
			},
			"removeBusiness": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := callerIdentity(p)
					if err != nil {
						return nil, err
					}
					if err := r.Businesses.Remove(p.Context, id, argString(p.Args, "id")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
			"adminRemoveBusiness": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := callerIdentity(p)
					if err != nil {
						return nil, err
					}
					if err := access.Check(id, access.Roles(domain.RoleAdmin)); err != nil {
						return nil, err
					}
					if err := r.Businesses.Remove(p.Context, id, argString(p.Args, "id")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
			"updateUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateUserInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := callerIdentity(p)
					if err != nil {
						return nil, err
					}
					in, _ := p.Args["input"].(map[string]interface{})
					return r.Users.Update(p.Context, id, ports.UpdateUserInput{
						ID:                        argString(in, "id"),
						FirstName:                 argOptString(in, "firstName"),
						LastName:                  argOptString(in, "lastName"),
						Email:                     argOptString(in, "email"),
						Phone:                     argOptString(in, "phone"),
						ReserveServiceDescription: argOptString(in, "reserveServiceDescription"),
					})
				},
			},
			"deleteUser": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := callerIdentity(p)
					if err != nil {
						return nil, err
					}
					if err := r.Users.Remove(p.Context, id, argString(p.Args, "id")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
			"deleteMyAccount": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := callerIdentity(p)
					if err != nil {
						return nil, err
					}
					if err := r.Users.Remove(p.Context, id, id.ID); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

// callerIdentity unwraps the identity placed on the request context by the
// identity middleware.
func callerIdentity(p graphql.ResolveParams) (*domain.Identity, error) {
	id := middleware.IdentityFrom(p.Context)
	if id == nil {
		return nil, domain.ErrUnauthenticated
	}
	return id, nil
}

func argString(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func argOptString(args map[string]interface{}, key string) *string {
	if s, ok := args[key].(string); ok {
		return &s
	}
	return nil
}

func argObject(args map[string]interface{}, key string) map[string]any {
	m, _ := args[key].(map[string]interface{})
	return m
}

func argStrings(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
