// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package registry

import (
	"pagebuilder/internal/models"
	"pagebuilder/internal/schema"
)

// Catalog type names.
const (
	TypeComponent   = models.FreeFormType
	TypeHero        = "Hero"
	TypeArticleCard = "ArticleCard"
	TypeArticleList = "ArticleList"
	TypeSection     = "Section"
	TypeText        = "Text"
	TypeImage       = "Image"
	TypeContainer   = "Container"
)

// Catalog returns a fresh copy of the built-in component schemas in palette
// order.
func Catalog() []*Schema {
	return []*Schema{
		{
			Type:            TypeComponent,
			Name:            "Component",
			Description:     "Generic block bound to a registry template",
			DefaultProps:    models.Props{},
			CanHaveChildren: true,
		},
		{
			Type:        TypeHero,
			Name:        "Hero",
			Description: "Main section with title, subtitle and call to action",
			DefaultProps: models.Props{
				"title":           "Hero title",
				"subtitle":        "",
				"backgroundImage": "",
				"ctaText":         "",
				"ctaLink":         "",
			},
			validate: rules(
				requiredString("title", "title is required"),
				optionalString("subtitle"),
				optionalURL("backgroundImage"),
				optionalString("ctaText"),
				optionalURL("ctaLink"),
			),
		},
		{
			Type:        TypeArticleCard,
			Name:        "Article card",
			Description: "Single article teaser",
			DefaultProps: models.Props{
				"title":       "Article title",
				"excerpt":     "",
				"image":       "",
				"author":      "",
				"publishedAt": "",
				"category":    "",
				"link":        "",
			},
			validate: rules(
				requiredString("title", "title is required"),
				optionalString("excerpt"),
				optionalURL("image"),
				optionalString("author"),
				optionalString("publishedAt"),
				optionalString("category"),
				optionalURL("link"),
			),
		},
		{
			Type:        TypeArticleList,
			Name:        "Article list",
			Description: "Grid of article cards",
			DefaultProps: models.Props{
				"title":   "",
				"columns": "3",
			},
			CanHaveChildren: true,
			AllowedChildren: []string{TypeArticleCard},
			validate: rules(
				optionalString("title"),
				oneOf("columns", "1", "2", "3", "4"),
			),
		},
		{
			Type:        TypeSection,
			Name:        "Section",
			Description: "Section wrapper with background and padding",
			DefaultProps: models.Props{
				"backgroundColor": "",
				"padding":         "md",
			},
			CanHaveChildren: true,
			validate: rules(
				optionalString("backgroundColor"),
				oneOf("padding", "none", "sm", "md", "lg", "xl"),
			),
		},
		{
			Type:        TypeText,
			Name:        "Text",
			Description: "Text block with heading and paragraph variants",
			DefaultProps: models.Props{
				"content": "Text here",
				"variant": "p",
				"align":   "left",
			},
			validate: rules(
				requiredString("content", "content is required"),
				oneOf("variant", "p", "h1", "h2", "h3", "h4", "h5", "h6"),
				oneOf("align", "left", "center", "right"),
			),
		},
		{
			Type:        TypeImage,
			Name:        "Image",
			Description: "Image with sizing options",
			DefaultProps: models.Props{
				"src":       "",
				"alt":       "Image",
				"objectFit": "cover",
			},
			validate: rules(
				requiredURL("src"),
				requiredString("alt", "alt text is required"),
				optionalKind("width", schema.KindNumber),
				optionalKind("height", schema.KindNumber),
				oneOf("objectFit", "contain", "cover", "fill", "none", "scale-down"),
			),
		},
		{
			Type:        TypeContainer,
			Name:        "Container",
			Description: "Container with max width and padding",
			DefaultProps: models.Props{
				"maxWidth": "xl",
				"padding":  true,
			},
			CanHaveChildren: true,
			validate: rules(
				oneOf("maxWidth", "sm", "md", "lg", "xl", "2xl", "full"),
				optionalKind("padding", schema.KindBoolean),
			),
		},
	}
}
