package store

// Schema is the SQLite DDL of a local mirror of the annotation tables. Only
// the columns read by the builder are declared; PostgreSQL sources are
// never migrated.
const Schema = `
CREATE TABLE IF NOT EXISTS PUBLISHING (
	METADATAID     TEXT NOT NULL,
	PUBLISHINGYEAR TEXT
);
CREATE INDEX IF NOT EXISTS idx_publishing_metadata ON PUBLISHING(METADATAID);

CREATE TABLE IF NOT EXISTS PAGECOLLECTIONMETADATA (
	PAGECOLLECTIONID TEXT PRIMARY KEY,
	ROCCID           TEXT
);

CREATE TABLE IF NOT EXISTS LINE_ANNOTATIONS (
	LINE_ID            TEXT PRIMARY KEY,
	PAGE_COLLECTION_ID TEXT NOT NULL,
	LINE               TEXT
);
CREATE INDEX IF NOT EXISTS idx_lines_collection ON LINE_ANNOTATIONS(PAGE_COLLECTION_ID);
`

// DefaultLinesQuery returns one row per line annotation of a known page
// collection: line id, collection id and text. Years come from
// DefaultCollectionsQuery; joining PUBLISHING here would repeat a line once
// per publishing record.
const DefaultLinesQuery = `SELECT LA.LINE_ID, LA.PAGE_COLLECTION_ID, LA.LINE
FROM LINE_ANNOTATIONS LA
JOIN PAGECOLLECTIONMETADATA PCM ON LA.PAGE_COLLECTION_ID = PCM.PAGECOLLECTIONID`

// DefaultCollectionsQuery returns every page collection with its
// publishing year, NULL when unknown.
const DefaultCollectionsQuery = `SELECT PCM.PAGECOLLECTIONID, PUB.PUBLISHINGYEAR
FROM PAGECOLLECTIONMETADATA PCM
LEFT JOIN PUBLISHING PUB ON PCM.ROCCID = PUB.METADATAID`
