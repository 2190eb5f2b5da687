package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS profile (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    name                 TEXT NOT NULL,
    mess_name            TEXT NOT NULL,
    monthly_rate         REAL NOT NULL,
    per_meal_rate        REAL NOT NULL,
    start_date           TEXT NOT NULL,
    extension_days       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS settings (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    theme                TEXT NOT NULL,
    notifications        INTEGER NOT NULL DEFAULT 0,
    saved_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cycles (
    position             INTEGER PRIMARY KEY,
    cycle_id             TEXT NOT NULL,
    start_date           TEXT NOT NULL,
    end_date             TEXT NOT NULL,
    completed_at         TEXT,
    is_current           INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS days (
    position             INTEGER NOT NULL REFERENCES cycles(position) ON DELETE CASCADE,
    idx                  INTEGER NOT NULL,
    day_id               TEXT NOT NULL,
    date                 TEXT NOT NULL,
    day_name             TEXT NOT NULL,
    PRIMARY KEY (position, idx)
);

CREATE TABLE IF NOT EXISTS meal_slots (
    position             INTEGER NOT NULL,
    idx                  INTEGER NOT NULL,
    meal                 TEXT NOT NULL,
    status               TEXT NOT NULL,
    timestamp            TEXT NOT NULL,
    PRIMARY KEY (position, idx, meal),
    FOREIGN KEY (position, idx) REFERENCES days(position, idx) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_cycles_current ON cycles(is_current) WHERE is_current = 1;
`
