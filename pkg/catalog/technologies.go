package catalog

import "sort"

// techByPackage maps external package names to the technology they
// indicate. Lookup is exact; framework sub-packages map through their
// scope entry.
var techByPackage = map[string]string{
	"react":                  "React",
	"react-dom":              "React",
	"react-router":           "React Router",
	"react-router-dom":       "React Router",
	"next":                   "Next.js",
	"vue":                    "Vue",
	"@angular/core":          "Angular",
	"svelte":                 "Svelte",
	"redux":                  "Redux",
	"@reduxjs/toolkit":       "Redux",
	"react-redux":            "Redux",
	"zustand":                "Zustand",
	"mobx":                   "MobX",
	"@tanstack/react-query":  "React Query",
	"axios":                  "Axios",
	"graphql":                "GraphQL",
	"@apollo/client":         "Apollo GraphQL",
	"express":                "Express",
	"koa":                    "Koa",
	"fastify":                "Fastify",
	"socket.io":              "Socket.IO",
	"socket.io-client":       "Socket.IO",
	"ws":                     "WebSockets",
	"mongoose":               "MongoDB",
	"mongodb":                "MongoDB",
	"pg":                     "PostgreSQL",
	"mysql2":                 "MySQL",
	"prisma":                 "Prisma",
	"@prisma/client":         "Prisma",
	"sequelize":              "Sequelize",
	"typeorm":                "TypeORM",
	"tailwindcss":            "Tailwind CSS",
	"styled-components":      "Styled Components",
	"@emotion/react":         "Emotion",
	"sass":                   "Sass",
	"typescript":             "TypeScript",
	"jest":                   "Jest",
	"vitest":                 "Vitest",
	"@testing-library/react": "Testing Library",
	"cypress":                "Cypress",
	"vite":                   "Vite",
	"webpack":                "Webpack",
	"passport":               "Passport",
	"jsonwebtoken":           "JWT",
	"next-auth":              "NextAuth",
	"firebase":               "Firebase",
}

// detectTechnologies maps the deduplicated package list to a sorted,
// deduplicated set of technology names.
func detectTechnologies(packages []string) []string {
	set := make(map[string]bool)
	for _, p := range packages {
		if tech, ok := techByPackage[p]; ok {
			set[tech] = true
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
