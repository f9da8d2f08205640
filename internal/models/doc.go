// Package models defines the core domain documents for Hisaab.
//
// # Documents
//
//   - User: a registered account with the list of group ids it belongs to
//   - Group: a named member set with an admin and a shareable join code
//   - Expense: an immutable ledger entry owned by exactly one group
//   - SplitLine: one member's share of an expense
//
// # Design Principles
//
//  1. Relationships use ID strings, never pointers, to avoid circular
//     references and to match the persisted document shapes one-to-one.
//  2. User.Groups and Group.Members are a denormalized pair updated by two
//     separate writes. The pair is eventually consistent; dangling references
//     are healed on read (see the group service), never assumed impossible.
//  3. Expenses are append-only. There is no update or delete path, so an
//     Expense loaded from the store is safe to share without copying.
package models
