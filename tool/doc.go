// Package tool holds the built-in tool components the class-library
// catalog registers under the tools and toolkits categories: a Brave web
// search tool, a JSON spec inspector, a tool wrapping a compiled user
// function, and a search toolkit that bundles tools for agents.
//
// Every type here implements langchaingo's tools.Tool so built instances
// plug straight into an executable agent's tool set.
package tool
