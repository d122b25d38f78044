// Package savetrack tracks small everyday savings and turns them into a
// habit. It is local-first: the data stays in a folder the user owns.
//
// The core functionalities include:
//   - Entries: amounts not spent, with a category, a note and a day, recorded
//     through a Store over a pluggable Backend (JSONL folder or SQLite).
//   - Streaks: consecutive days with at least one entry, and the milestone
//     badges they earn.
//   - Goals: savings targets filled by the entries logged while they are
//     active.
//   - Insights: prioritized, personalized messages about goals, the streak
//     and saving patterns.
//   - Analytics: totals, category breakdowns, period comparisons and trends
//     over trailing windows.
//   - Export: JSON backups that can be imported back, and CSV or Excel tables.
//
// Engines are pure functions of a Snapshot and a reference time. The Tracker
// ties them to the Store and reports badges and completed goals as events.
//
// This package serves as the foundational logic for the `svt` command-line
// tool.
package savetrack
