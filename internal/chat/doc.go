// ABOUTME: Package documentation for the chat service
// ABOUTME: Covers ownership, the member-management policy, and leave-or-delete semantics

// Package chat manages group and private chats and their memberships.
//
// Every chat has exactly one owner: the user who created it. Ownership is
// fixed for the chat's lifetime and carries one right that never moves:
// when the owner leaves, the chat is deleted outright, cascading all
// memberships and messages. Any other member leaving drops only their own
// membership row.
//
// Member management is governed by a configurable policy. PolicyOpen (the
// default) lets any registered user add or remove members of any chat,
// matching the permissive behavior this system inherited. PolicyOwner
// restricts both operations to the chat's creator and rejects everyone
// else with ErrForbidden. The policy gates management only; leave-or-delete
// and message access are unaffected by it.
//
// A private chat is a group chat with a different label: two initial
// members and kind "private". Nothing enforces that it stays at two.
package chat
