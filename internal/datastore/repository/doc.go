// Package repository provides data access for the lifelist schema.
//
// # Error Handling
//
// Repositories return sentinel errors (ErrLifelistNotFound, ErrDuplicateKey, ...)
// wrapped in enhanced errors instead of leaking GORM errors. Callers test them with
// errors.Is; the enhanced wrapper carries the category (not-found, conflict, database).
//
// # Transactions
//
// Every repository is bound to a *gorm.DB. Store groups them and Store.Transaction
// hands a callback a Store bound to one transaction, so multi-step mutations
// commit or roll back as a unit. Methods that must be atomic on their own
// (ReplaceTiers, SetActive, ReplaceValues, SetPrimary) open their own transaction,
// which becomes a savepoint when called inside Store.Transaction.
//
// # Required Schema Constraints
//
// GetOrCreate and the idempotent join methods rely on unique constraints:
//
//   - tags: UNIQUE(name)
//   - tag_hierarchy: UNIQUE(tag_id, parent_tag_id)
//   - observation_tags: PRIMARY KEY(observation_id, tag_id)
//   - entry_primary_photos: PRIMARY KEY(lifelist_id, entry_name), UNIQUE(photo_id)
//
// The manager's AutoMigrate creates them.
package repository
