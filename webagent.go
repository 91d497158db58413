// Package webagent provides web research tools for LLM agents: a concurrent
// page reader that turns URLs into compact Markdown, web search, a tool
// server exposing both over the Model Context Protocol, and a small agent
// runner that drives chat models through tool calls and handoffs.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, serpapi/, openai/).
package webagent
