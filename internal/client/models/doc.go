// Package models defines the client-side data contract of the agent
// marketplace: users, agents, purchases, invocations and the invocation
// request envelope. There is exactly one shape per entity; divergent
// backend spellings are normalized while decoding.
package models
