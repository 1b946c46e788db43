// Package store provides persistent storage for parley using SQLite.
//
// # Architecture
//
// The store package uses an interface-driven architecture with narrow
// interfaces consumed by each service:
//
//   - UserStore: user rows and reference-guarded deletion
//   - ListStore: the generic owner→members relation behind contact and block lists
//   - ChatStore: chat rows, membership and cascading deletion
//   - MessageStore: per-chat ordered message history
//
// SQLiteStore implements all interfaces in a single struct, allowing easy
// composition while maintaining clear interface boundaries.
//
// # Schema
//
// Six tables mirror the relational model:
//
//	usr(login PK, password, phone, block_list FK, contact_list FK)
//	user_list(list_id PK, list_type)
//	user_list_contains(list_id FK, list_member FK, PK(list_id, list_member))
//	chat(chat_id PK, chat_type, init_sender FK, created_at)
//	chat_list(chat_id FK ON DELETE CASCADE, member FK, PK(chat_id, member))
//	message(msg_id PK, msg_text, sender_login FK, chat_id FK ON DELETE CASCADE, msg_timestamp)
//
// Deleting a chat cascades to its memberships and messages. Foreign keys to
// usr never cascade: DeleteUser refuses to remove a user that is still
// referenced anywhere, which keeps the rest of the graph intact without
// cross-entity cascades.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// All statements are parameterized; user input is never formatted into SQL.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: referenced user/chat/message does not exist
//   - ErrDuplicateLogin: login already taken
//   - ErrDuplicateMembership: (list, member) or (chat, member) pair already present
//   - ErrReferentialConflict: user deletion blocked by existing references
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewSQLiteStore with a t.TempDir path (or ":memory:") for tests with
// real SQLite.
package store
