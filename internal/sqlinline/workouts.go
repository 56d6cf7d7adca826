package sqlinline

const QInsertWorkout = `--sql 6c9e3a57-2d84-4b1f-a6c9-8f5d7e2b4013
insert into workouts (id, user_id, activity, duration_minutes, xp_gain, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::int, $4::bigint, now());
`
