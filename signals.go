package trellis

// SignalInput is everything the stack detector reads: dependency names,
// manifest scripts, and marker-file existence. No I/O happens during
// detection.
type SignalInput struct {
	Deps    map[string]bool
	Scripts map[string]string
	Markers Markers
}

// signalRule assigns one classification when its condition holds. Rules in
// a category run top to bottom and later matches overwrite earlier ones, so
// more specific rules (a meta-framework over its base framework) belong
// after the generic ones.
type signalRule struct {
	when func(in SignalInput) bool
	set  func(s *DetectedSignals)
}

func dep(names ...string) func(SignalInput) bool {
	return func(in SignalInput) bool {
		for _, n := range names {
			if in.Deps[n] {
				return true
			}
		}
		return false
	}
}

var signalRules = []signalRule{
	// Frontend framework: generic first, meta-frameworks overwrite.
	{dep("react", "react-dom"), func(s *DetectedSignals) { s.Frontend = "React" }},
	{dep("vue"), func(s *DetectedSignals) { s.Frontend = "Vue.js" }},
	{dep("svelte"), func(s *DetectedSignals) { s.Frontend = "Svelte" }},
	{dep("@angular/core"), func(s *DetectedSignals) { s.Frontend = "Angular" }},
	{dep("solid-js"), func(s *DetectedSignals) { s.Frontend = "SolidJS" }},
	{dep("next"), func(s *DetectedSignals) { s.Frontend = "Next.js" }},
	{dep("nuxt"), func(s *DetectedSignals) { s.Frontend = "Nuxt" }},
	{dep("@sveltejs/kit"), func(s *DetectedSignals) { s.Frontend = "SvelteKit" }},
	{dep("@remix-run/react"), func(s *DetectedSignals) { s.Frontend = "Remix" }},
	{dep("astro"), func(s *DetectedSignals) { s.Frontend = "Astro" }},

	// Backend framework.
	{dep("express"), func(s *DetectedSignals) { s.Backend = "Express" }},
	{dep("koa"), func(s *DetectedSignals) { s.Backend = "Koa" }},
	{dep("fastify"), func(s *DetectedSignals) { s.Backend = "Fastify" }},
	{dep("@nestjs/core"), func(s *DetectedSignals) { s.Backend = "NestJS" }},
	{dep("hono"), func(s *DetectedSignals) { s.Backend = "Hono" }},

	// CSS framework. Tailwind also counts when only its config file exists.
	{dep("bootstrap"), func(s *DetectedSignals) { s.CSSFramework = "Bootstrap" }},
	{dep("bulma"), func(s *DetectedSignals) { s.CSSFramework = "Bulma" }},
	{dep("styled-components"), func(s *DetectedSignals) { s.CSSFramework = "styled-components" }},
	{dep("@emotion/react"), func(s *DetectedSignals) { s.CSSFramework = "Emotion" }},
	{func(in SignalInput) bool { return in.Deps["tailwindcss"] || in.Markers.TailwindConfig },
		func(s *DetectedSignals) { s.CSSFramework = "Tailwind CSS" }},

	// State management.
	{dep("redux", "@reduxjs/toolkit"), func(s *DetectedSignals) { s.State = "Redux" }},
	{dep("mobx"), func(s *DetectedSignals) { s.State = "MobX" }},
	{dep("zustand"), func(s *DetectedSignals) { s.State = "Zustand" }},
	{dep("pinia"), func(s *DetectedSignals) { s.State = "Pinia" }},
	{dep("jotai"), func(s *DetectedSignals) { s.State = "Jotai" }},

	// ORM / database access. Prisma also counts via its schema file.
	{dep("typeorm"), func(s *DetectedSignals) { s.ORM = "TypeORM" }},
	{dep("sequelize"), func(s *DetectedSignals) { s.ORM = "Sequelize" }},
	{dep("mongoose"), func(s *DetectedSignals) { s.ORM = "Mongoose" }},
	{dep("drizzle-orm"), func(s *DetectedSignals) { s.ORM = "Drizzle" }},
	{func(in SignalInput) bool { return in.Deps["prisma"] || in.Deps["@prisma/client"] || in.Markers.PrismaSchema },
		func(s *DetectedSignals) { s.ORM = "Prisma" }},

	// Test framework.
	{dep("mocha"), func(s *DetectedSignals) { s.TestFramework = "Mocha" }},
	{dep("jest"), func(s *DetectedSignals) { s.TestFramework = "Jest" }},
	{dep("vitest"), func(s *DetectedSignals) { s.TestFramework = "Vitest" }},
	{dep("@playwright/test"), func(s *DetectedSignals) { s.TestFramework = "Playwright" }},
	{dep("cypress"), func(s *DetectedSignals) { s.TestFramework = "Cypress" }},

	// Bundler / build tool.
	{dep("webpack"), func(s *DetectedSignals) { s.Bundler = "webpack" }},
	{dep("rollup"), func(s *DetectedSignals) { s.Bundler = "Rollup" }},
	{dep("esbuild"), func(s *DetectedSignals) { s.Bundler = "esbuild" }},
	{dep("parcel"), func(s *DetectedSignals) { s.Bundler = "Parcel" }},
	{dep("vite"), func(s *DetectedSignals) { s.Bundler = "Vite" }},
	{dep("turbopack"), func(s *DetectedSignals) { s.Bundler = "Turbopack" }},

	// Runtime.
	{dep("typescript"), func(s *DetectedSignals) { s.Runtime = "Node.js + TypeScript" }},
	{dep("bun-types", "@types/bun"), func(s *DetectedSignals) { s.Runtime = "Bun" }},

	// API style: REST is the generic default, GraphQL and tRPC overwrite.
	{dep("axios", "express", "fastify", "koa"), func(s *DetectedSignals) { s.APIStyle = "REST" }},
	{dep("graphql", "apollo-server", "@apollo/server", "@apollo/client"), func(s *DetectedSignals) { s.APIStyle = "GraphQL" }},
	{dep("@trpc/server", "@trpc/client"), func(s *DetectedSignals) { s.APIStyle = "tRPC" }},

	// Auth.
	{dep("passport"), func(s *DetectedSignals) { s.Auth = "Passport" }},
	{dep("jsonwebtoken", "jose"), func(s *DetectedSignals) { s.Auth = "JWT" }},
	{dep("next-auth", "@auth/core"), func(s *DetectedSignals) { s.Auth = "Auth.js" }},
	{dep("@clerk/nextjs", "@clerk/clerk-react"), func(s *DetectedSignals) { s.Auth = "Clerk" }},
	{dep("@supabase/supabase-js"), func(s *DetectedSignals) { s.Auth = "Supabase Auth" }},

	// Deployment target, marker-driven.
	{func(in SignalInput) bool { return in.Markers.Dockerfile || in.Markers.DockerCompose },
		func(s *DetectedSignals) { s.Deployment = "Docker" }},
	{func(in SignalInput) bool { return in.Markers.VercelConfig }, func(s *DetectedSignals) { s.Deployment = "Vercel" }},
	{func(in SignalInput) bool { return in.Markers.NetlifyConfig }, func(s *DetectedSignals) { s.Deployment = "Netlify" }},
}

// DetectSignals classifies the technology stack from manifest data and
// marker-file existence. Deterministic: same input, same snapshot.
func DetectSignals(in SignalInput) DetectedSignals {
	var s DetectedSignals
	for _, rule := range signalRules {
		if rule.when(in) {
			rule.set(&s)
		}
	}
	if s.Runtime == "" && (len(in.Deps) > 0 || len(in.Scripts) > 0) {
		s.Runtime = "Node.js"
	}
	return s
}
