package sqlinline

const QInsertScoreEvent = `--sql 8a5c2f9e-7b31-4d68-9f0a-2c6e4b8d1735
insert into score_events (id, user_id, url, platform, score, fraud, tags, country, latency_ms, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::int, $5::boolean, $6::text[], $7::text, $8::int, now());
`

const QScoreStatsSummary = `--sql d4b1e8c6-5f92-4a37-b8d4-1e7a9c3f5280
select
    count(*) as total_checks,
    count(*) filter (where fraud) as fraud_count,
    count(*) filter (where created_at >= now() - interval '24 hours') as checks_24h,
    count(*) filter (where fraud and created_at >= now() - interval '24 hours') as fraud_24h
from score_events;
`
